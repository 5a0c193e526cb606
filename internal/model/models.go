// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo is one selectable backend model.
type ModelInfo struct {
	// ID is the identifier sent to the completion backend
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Provider is the vendor family used for grouping (openai, anthropic, ...)
	Provider string `json:"provider"`
}

// String returns "Name (id)".
func (m ModelInfo) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.ID)
}

// ProviderName returns the display form of the provider.
func (m ModelInfo) ProviderName() string {
	switch m.Provider {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGoogle:
		return "Google"
	case ProviderPerplexity:
		return "Perplexity"
	default:
		return m.Provider
	}
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGoogle     = "google"
	ProviderPerplexity = "perplexity"
)

// DefaultModelID is the model selected when nothing else is configured.
const DefaultModelID = "gpt-3.5-turbo"

// Catalog is the fixed, ordered list of selectable models. It is never
// checked against what the backend actually serves.
var Catalog = []ModelInfo{
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: ProviderOpenAI},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Provider: ProviderOpenAI},
	{ID: "gpt-4", Name: "GPT-4", Provider: ProviderOpenAI},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: ProviderOpenAI},

	{ID: "claude-3-5-sonnet-20240620", Name: "Claude 3.5 Sonnet", Provider: ProviderAnthropic},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Provider: ProviderAnthropic},
	{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet", Provider: ProviderAnthropic},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Provider: ProviderAnthropic},

	{ID: "gemini-1.5-flash", Name: "Google Gemini 1.5 Flash", Provider: ProviderGoogle},
	{ID: "gemini-1.5-pro", Name: "Google Gemini 1.5 Pro", Provider: ProviderGoogle},
	{ID: "gemini-1.0-pro", Name: "Google Gemini 1.0 Pro", Provider: ProviderGoogle},

	{ID: "llama-3.1-sonar-large-128k-chat", Name: "Llama 3.1 Sonar Large", Provider: ProviderPerplexity},
	{ID: "llama-3.1-sonar-small-128k-chat", Name: "Llama 3.1 Sonar Small", Provider: ProviderPerplexity},
}

// =============================================================================
// LOOKUP FUNCTIONS
// =============================================================================

// Lookup returns the catalog entry for id. Matching ignores case and
// surrounding whitespace.
func Lookup(id string) (ModelInfo, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// IsKnown reports whether id is in the catalog.
func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// IndexOf returns the catalog position of id, or -1.
func IndexOf(id string) int {
	id = strings.ToLower(strings.TrimSpace(id))
	for i, m := range Catalog {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// ByProvider returns the catalog entries of one provider, in catalog order.
func ByProvider(provider string) []ModelInfo {
	provider = strings.ToLower(provider)
	var out []ModelInfo
	for _, m := range Catalog {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	return out
}

// Providers returns the distinct providers in catalog order.
func Providers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range Catalog {
		if !seen[m.Provider] {
			seen[m.Provider] = true
			out = append(out, m.Provider)
		}
	}
	return out
}

// DisplayName returns the catalog name for id, or id itself when unknown.
func DisplayName(id string) string {
	if m, ok := Lookup(id); ok {
		return m.Name
	}
	return id
}
