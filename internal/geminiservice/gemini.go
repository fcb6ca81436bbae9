// Package geminiservice wraps the Gemini REST API behind a single
// GenerateAdvice call. One attempt per request, no retries: a transient
// upstream failure surfaces to the caller rather than stalling the request
// behind a backoff loop.
package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultAPIURL  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"
	requestTimeout = 30 * time.Second
)

// apiBaseURL is overridable so tests can point the client at a local mock.
var apiBaseURL = defaultAPIURL

// ErrUpstreamUnavailable covers every failure mode of the generation
// service: network errors, timeouts and non-200 responses.
var ErrUpstreamUnavailable = errors.New("text generation service unavailable")

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents          []GeminiContent `json:"contents"`
	SystemInstruction *GeminiContent  `json:"systemInstruction,omitempty"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateAdvice sends the assembled prompt to Gemini and returns the advice
// text. An empty ("", nil) result is possible when the model answers with a
// blank candidate; callers must treat that as a soft failure and report
// invalid advice instead of crashing.
func GenerateAdvice(ctx context.Context, log *zerolog.Logger, userPrompt string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Error().Msg("GEMINI_API_KEY environment variable is not set")
		return "", fmt.Errorf("%w: server is not configured for advice generation", ErrUpstreamUnavailable)
	}

	payload := GeminiPayload{
		SystemInstruction: &GeminiContent{
			Parts: []GeminiPart{{Text: SystemPrompt}},
		},
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: userPrompt}}},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, apiBaseURL+"?key="+apiKey, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Int("prompt_len", len(userPrompt)).Msg("Calling Gemini API")

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Gemini request failed")
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("Gemini returned non-200")
		return "", fmt.Errorf("%w: status %s", ErrUpstreamUnavailable, resp.Status)
	}

	var geminiResp GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamUnavailable, err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
	}

	// No candidates is a soft failure, not an error: the caller decides
	// how to present an empty answer.
	log.Warn().Msg("Gemini response contained no candidates")
	return "", nil
}
