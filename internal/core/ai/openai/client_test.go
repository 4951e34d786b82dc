package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
)

func testConfig(baseURL string) *config.OpenAIConfig {
	return &config.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "gpt-4o-mini",
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func chatBody(content string) string {
	return `{"choices":[{"message":{"content":` + mustQuote(content) + `}}],"usage":{"total_tokens":42}}`
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatBody(`{"meals":[]}`)))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	defer client.Close()

	content, err := client.Generate(context.Background(), "plan my week")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if content != `{"meals":[]}` {
		t.Errorf("content = %q", content)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}

	messages, ok := gotBody["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	system := messages[0].(map[string]interface{})
	if system["role"] != "system" {
		t.Errorf("first message role = %v", system["role"])
	}
	user := messages[1].(map[string]interface{})
	if user["role"] != "user" || user["content"] != "plan my week" {
		t.Errorf("user message = %v", user)
	}
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("non-200 status should be an error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("empty choices should be an error")
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatBody("")))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("empty content should be an error")
	}
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(testConfig(srv.URL))
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("transport failure should be an error")
	}
}
