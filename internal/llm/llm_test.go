package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmtrivia/internal/config"
)

func TestNewClientFromConfig_AnthropicDefault(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Anthropic.APIKey = "k"
	cfg.LLM.Anthropic.Model = "claude-3-haiku-20240307"

	client, prov, model, err := NewClientFromConfig(cfg)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	if client == nil {
		t.Fatalf("expected non-nil client")
	}
	if prov != ProviderAnthropic {
		t.Fatalf("expected anthropic as default provider, got %s", prov)
	}
	if model != "claude-3-haiku-20240307" {
		t.Fatalf("unexpected model %s", model)
	}
}

func TestNewClientFromConfig_NotConfigured(t *testing.T) {
	cases := []struct {
		name     string
		provider string
	}{
		{"anthropic missing key", "anthropic"},
		{"openai missing key", "openai"},
		{"google missing key", "google"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.LLM.DefaultProvider = tc.provider
			if _, _, _, err := NewClientFromConfig(cfg); err == nil {
				t.Fatalf("expected configuration error for %s", tc.provider)
			}
		})
	}
}

func TestNewClientFromConfig_UnsupportedProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "mystery"
	if _, _, _, err := NewClientFromConfig(cfg); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestAnthropicComplete_ContentBlocks(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "k" {
			t.Errorf("expected x-api-key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Errorf("expected anthropic-version header")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if body["max_tokens"] != float64(300) {
			t.Errorf("expected max_tokens 300, got %v", body["max_tokens"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role":"assistant","content":[{"type":"text","text":"1. Fact one.\n2. Fact two."}]}`))
	}))
	defer upstream.Close()

	c := &anthropicClient{apiKey: "k", baseURL: upstream.URL, model: "claude-3-haiku-20240307", http: upstream.Client()}

	result, err := c.Complete(context.Background(), Request{Prompt: "trivia please", MaxTokens: 300})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	blocks, ok := result.Content.([]any)
	if !ok {
		t.Fatalf("expected content-block list, got %T", result.Content)
	}
	first, ok := blocks[0].(map[string]any)
	if !ok {
		t.Fatalf("expected block mapping, got %T", blocks[0])
	}
	if first["text"] != "1. Fact one.\n2. Fact two." {
		t.Fatalf("unexpected block text %v", first["text"])
	}
}

func TestAnthropicComplete_LegacyCompletionShape(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"completion":"1. Old-shape fact."}`))
	}))
	defer upstream.Close()

	c := &anthropicClient{apiKey: "k", baseURL: upstream.URL, model: "m", http: upstream.Client()}

	result, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	payload, ok := result.Content.(map[string]any)
	if !ok {
		t.Fatalf("expected whole payload passthrough, got %T", result.Content)
	}
	if payload["completion"] != "1. Old-shape fact." {
		t.Fatalf("unexpected completion field %v", payload["completion"])
	}
}

func TestAnthropicComplete_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	c := &anthropicClient{apiKey: "k", baseURL: upstream.URL, model: "m", http: upstream.Client()}

	if _, err := c.Complete(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatalf("expected error on non-2xx upstream status")
	}
}

func TestOpenAIComplete(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- Fact A\n- Fact B"}}]}`))
	}))
	defer upstream.Close()

	c := &openAIClient{apiKey: "k", baseURL: upstream.URL, model: "gpt-test", http: upstream.Client()}

	result, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	content, ok := result.Content.(string)
	if !ok {
		t.Fatalf("expected string content, got %T", result.Content)
	}
	if content != "- Fact A\n- Fact B" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestOpenAIComplete_NoChoices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer upstream.Close()

	c := &openAIClient{apiKey: "k", baseURL: upstream.URL, model: "gpt-test", http: upstream.Client()}

	if _, err := c.Complete(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatalf("expected error when no choices returned")
	}
}
