package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleProvider_Generate(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "생성된 텍스트"}}}},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 34,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewGoogleProvider("test-key", WithGoogleBaseURL(server.URL))

	resp, err := p.Generate(context.Background(), GenerateRequest{
		Prompt:    "프롬프트",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if resp.Text != "생성된 텍스트" {
		t.Errorf("Text = %q, want %q", resp.Text, "생성된 텍스트")
	}
	if resp.Model != defaultGeminiModel {
		t.Errorf("Model = %q, want %q", resp.Model, defaultGeminiModel)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 34 {
		t.Errorf("tokens = %d/%d, want 12/34", resp.InputTokens, resp.OutputTokens)
	}

	if !strings.Contains(gotPath, defaultGeminiModel+":generateContent") {
		t.Errorf("request path = %q, want generateContent for %s", gotPath, defaultGeminiModel)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Role != "user" {
		t.Fatalf("expected a single user content, got %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "프롬프트" {
		t.Errorf("prompt = %q, want %q", gotBody.Contents[0].Parts[0].Text, "프롬프트")
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.MaxOutputTokens != 256 {
		t.Errorf("generationConfig = %+v, want maxOutputTokens 256", gotBody.GenerationConfig)
	}
}

func TestGoogleProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	p := NewGoogleProvider("test-key", WithGoogleBaseURL(server.URL))

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on 429, got nil")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestGoogleProvider_Generate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	p := NewGoogleProvider("test-key", WithGoogleBaseURL(server.URL))

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on empty candidates, got nil")
	}
}

func TestGoogleProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	p := NewGoogleProvider("test-key", WithGoogleBaseURL(server.URL))
	if err := p.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck returned error: %v", err)
	}
}
