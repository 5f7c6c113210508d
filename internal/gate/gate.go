// Package gate answers one question: is this (organization, name) pair on
// the allow-list. Matching is exact and case-sensitive after trimming
// surrounding whitespace. No other normalization happens, so a full-width
// variant of an allowed name does not pass.
package gate

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one allowed (organization, name) pair.
type Entry struct {
	Organization string `yaml:"organization"`
	Name         string `yaml:"name"`
}

type allowListFile struct {
	Allowed []Entry `yaml:"allowed"`
}

// Gate holds the loaded allow-list.
type Gate struct {
	entries map[string]struct{}
}

func entryKey(org, name string) string {
	return org + "\x00" + name
}

// Load reads the allow-list from a YAML file. A missing or unreadable file
// is an error: the caller must not run without a gate.
func Load(path string) (*Gate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allow-list: %w", err)
	}
	return Parse(data)
}

// Parse builds a Gate from YAML bytes.
func Parse(data []byte) (*Gate, error) {
	var file allowListFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse allow-list: %w", err)
	}

	g := &Gate{entries: make(map[string]struct{}, len(file.Allowed))}
	for _, e := range file.Allowed {
		org := strings.TrimSpace(e.Organization)
		name := strings.TrimSpace(e.Name)
		if org == "" || name == "" {
			continue
		}
		g.entries[entryKey(org, name)] = struct{}{}
	}
	return g, nil
}

// Check reports whether the pair is allowed. Inputs are trimmed of
// surrounding whitespace; nothing else is altered before comparison.
// An empty allow-list denies everyone.
func (g *Gate) Check(org, name string) bool {
	org = strings.TrimSpace(org)
	name = strings.TrimSpace(name)
	if org == "" || name == "" {
		return false
	}
	_, ok := g.entries[entryKey(org, name)]
	return ok
}

// Len returns the number of allowed pairs.
func (g *Gate) Len() int {
	return len(g.entries)
}
