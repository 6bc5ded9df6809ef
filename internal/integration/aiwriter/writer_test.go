package aiwriter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"talentx/internal/common"
)

type fakeCompleter struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func TestWriterRequiresTitle(t *testing.T) {
	_, err := NewWriter(nil, nil).Describe(context.Background(), "  ", "Go")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriterFallbackWithoutCompleter(t *testing.T) {
	text, err := NewWriter(nil, nil).Describe(context.Background(), "Backend Engineer", " Go ,, PostgreSQL ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasPrefix(text, "Backend Engineer\n\n") {
		t.Fatalf("expected title first, got %q", text)
	}
	if !strings.Contains(text, "experience with Go, PostgreSQL and") {
		t.Fatalf("expected normalized stack, got %q", text)
	}
}

func TestFallbackWithoutStack(t *testing.T) {
	if text := Fallback("Designer", ""); !strings.Contains(text, "experience with various technologies") {
		t.Fatalf("unexpected fallback %q", text)
	}
}

func TestWriterUsesCompleter(t *testing.T) {
	completer := &fakeCompleter{text: "  Generated text \n"}
	text, err := NewWriter(completer, nil).Describe(context.Background(), "Go Engineer", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if text != "Generated text" {
		t.Fatalf("expected generated text, got %q", text)
	}
	if len(completer.prompts) != 1 || completer.prompts[0] != "Generate a job description for: Go Engineer. Tech stack: Not specified." {
		t.Fatalf("unexpected prompts %v", completer.prompts)
	}
}

func TestWriterFallsBackOnFailure(t *testing.T) {
	for _, completer := range []*fakeCompleter{{err: errors.New("boom")}, {text: "   "}} {
		text, err := NewWriter(completer, nil).Describe(context.Background(), "Go Engineer", "Go")
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if text != Fallback("Go Engineer", "Go") {
			t.Fatalf("expected fallback, got %q", text)
		}
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hello"}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	text, err := client.Complete(context.Background(), systemPrompt, "prompt")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if text != "Hello" {
		t.Fatalf("expected Hello, got %q", text)
	}
	if got.Model != DefaultModel || got.MaxTokens != defaultMaxTokens {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "prompt" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAIClientErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	writer := NewWriter(NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL}), nil)
	text, err := writer.Describe(context.Background(), "Go Engineer", "Go")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if text != Fallback("Go Engineer", "Go") {
		t.Fatalf("expected fallback, got %q", text)
	}
}
