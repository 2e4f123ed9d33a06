package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChat(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  - point one\n"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	reply, err := client.Chat(context.Background(), "gpt-4o", "system", "user text")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "- point one" {
		t.Errorf("Expected trimmed reply, got %q", reply)
	}
	if received.Model != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %s", received.Model)
	}
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" || received.Messages[1].Content != "user text" {
		t.Errorf("Unexpected messages: %+v", received.Messages)
	}
}

func TestChatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := NewClient("k", server.URL).Chat(context.Background(), "m", "s", "u")
	if err == nil || !strings.Contains(err.Error(), "no response choices") {
		t.Errorf("Expected no choices error, got %v", err)
	}
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := NewClient("k", server.URL).Chat(context.Background(), "m", "s", "u")
	if err == nil || !strings.Contains(err.Error(), "chat completion") {
		t.Errorf("Expected wrapped API error, got %v", err)
	}
}
