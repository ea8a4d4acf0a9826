/*
client.go - Generative model client

PURPOSE:
  Wraps a single request/response exchange with the Gemini API. Low sampling
  temperature for reproducibility; bounded timeout so a stuck round-trip
  becomes a translation failure instead of hanging the pipeline.

ERROR POLICY:
  Failures are returned as Go errors. The output text is additionally
  screened with IsErrorMarker before emission — some models echo error
  commentary into the body, and marker text must never be written to disk
  as if it were code.
*/
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrTranslationFailed wraps every model-side failure.
var ErrTranslationFailed = errors.New("translation failed")

// errorMarkerPrefixes flag generated text that is an error report rather
// than code.
var errorMarkerPrefixes = []string{
	"// Error during translation",
	"# Error during translation",
	"ERROR:",
}

// IsErrorMarker reports whether generated text is a translation-failure
// marker instead of source code.
func IsErrorMarker(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, p := range errorMarkerPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// GeminiTranslator implements Translator against the Gemini API.
type GeminiTranslator struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiTranslator builds the client. The API key is required; model and
// timeout fall back to usable defaults.
func NewGeminiTranslator(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiTranslator{
		client:      client,
		model:       model,
		temperature: 0.2,
		timeout:     timeout,
	}, nil
}

// Translate performs one blocking exchange with the model.
func (t *GeminiTranslator) Translate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.Models.GenerateContent(ctx,
		t.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr(t.temperature),
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrTranslationFailed)
	}
	if IsErrorMarker(text) {
		return "", fmt.Errorf("%w: model returned an error marker instead of code", ErrTranslationFailed)
	}
	return text, nil
}
