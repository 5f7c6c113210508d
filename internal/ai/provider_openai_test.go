package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProvider_Generate(t *testing.T) {
	var gotAuth string
	var gotBody openAIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		resp := map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "답변"}},
			},
			"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 9},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))

	resp, err := p.Generate(context.Background(), GenerateRequest{Prompt: "질문"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if resp.Text != "답변" {
		t.Errorf("Text = %q, want %q", resp.Text, "답변")
	}
	if resp.InputTokens != 5 || resp.OutputTokens != 9 {
		t.Errorf("tokens = %d/%d, want 5/9", resp.InputTokens, resp.OutputTokens)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", gotBody.Messages)
	}
	if gotBody.Messages[0].Content != "질문" {
		t.Errorf("message content = %q, want %q", gotBody.Messages[0].Content, "질문")
	}
}

func TestOpenAIProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("bad-key", WithOpenAIBaseURL(server.URL))

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on 401, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestOpenAIProvider_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on empty choices, got nil")
	}
}
