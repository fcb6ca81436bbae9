package geminiservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newMockGemini starts a server that replies with the given status and a
// Gemini-shaped body wrapping text, and points the client at it.
func newMockGemini(t *testing.T, status int, text *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			t.Error("request missing api key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if text == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
			return
		}
		// Gemini response shape: candidates[0].content.parts[0].text
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{
							map[string]interface{}{"text": *text},
						},
					},
				},
			},
		})
	}))

	oldURL := apiBaseURL
	apiBaseURL = srv.URL
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Cleanup(func() {
		apiBaseURL = oldURL
		srv.Close()
	})
	return srv
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestGenerateAdviceSuccess(t *testing.T) {
	text := "1. Drink more water.\n2. Sleep earlier."
	newMockGemini(t, http.StatusOK, &text)

	got, err := GenerateAdvice(context.Background(), testLogger(), "prompt")
	if err != nil {
		t.Fatalf("GenerateAdvice: %v", err)
	}
	if got != text {
		t.Errorf("got %q, want %q", got, text)
	}
}

func TestGenerateAdviceEmptyCandidatesIsSoftFailure(t *testing.T) {
	newMockGemini(t, http.StatusOK, nil)

	got, err := GenerateAdvice(context.Background(), testLogger(), "prompt")
	if err != nil {
		t.Fatalf("empty candidates must not be an error, got %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestGenerateAdviceUpstreamError(t *testing.T) {
	text := "ignored"
	newMockGemini(t, http.StatusInternalServerError, &text)

	_, err := GenerateAdvice(context.Background(), testLogger(), "prompt")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGenerateAdviceMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := GenerateAdvice(context.Background(), testLogger(), "prompt")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGenerateAdviceContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	oldURL := apiBaseURL
	apiBaseURL = srv.URL
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Cleanup(func() {
		apiBaseURL = oldURL
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := GenerateAdvice(ctx, testLogger(), "prompt")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable on timeout", err)
	}
}
