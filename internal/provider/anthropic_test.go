package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		var req anthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.System == "" {
			t.Error("system message was not lifted into the system field")
		}
		for _, m := range req.Messages {
			if m.Role == "system" {
				t.Error("system role should not appear in messages")
			}
		}
		if req.MaxTokens == 0 {
			t.Error("max_tokens should default to a non-zero value")
		}

		resp := anthResponse{
			ID:    "msg_123",
			Type:  "message",
			Model: req.Model,
			Content: []anthContentBlock{
				{Type: "text", Text: "Hi there."},
			},
			Usage: anthUsage{InputTokens: 12, OutputTokens: 3},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewAnthropicProvider("anthropic", server.URL, "test-key")
	resp, err := p.Complete(context.Background(), &CompletionRequest{
		Model: "claude-test",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are helpful."},
			{Role: RoleUser, Content: "Hi"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Hi there." {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestAnthropicMultipleTextBlocks(t *testing.T) {
	p := &AnthropicProvider{}
	got := p.extractContent([]anthContentBlock{
		{Type: "text", Text: "one"},
		{Type: "thinking", Text: "hidden"},
		{Type: "text", Text: "two"},
	})
	if got != "one\n\ntwo" {
		t.Errorf("extractContent = %q", got)
	}
}
