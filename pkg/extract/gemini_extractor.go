// Package extract pulls structured visit fields out of a free-form
// transcription with Gemini. Output is untrusted: every candidate value is
// re-validated downstream.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type GeminiExtractor struct {
	ApiKey  string
	BaseURL string

	allowed    map[string][]string
	numeric    []string
	httpClient *http.Client
}

// NewGeminiExtractor builds the extractor. allowed maps a column name to its
// accepted values; numeric lists the columns that carry numbers.
func NewGeminiExtractor(apiKey string, allowed map[string][]string, numeric []string) *GeminiExtractor {
	return &GeminiExtractor{
		ApiKey:     apiKey,
		BaseURL:    defaultBaseURL,
		allowed:    allowed,
		numeric:    numeric,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract asks the model for a partial field map. Rate-limited calls are
// retried with exponential backoff; any other failure is final.
func (e *GeminiExtractor) Extract(ctx context.Context, transcription string) (map[string]any, error) {
	if strings.TrimSpace(transcription) == "" {
		return map[string]any{}, nil
	}

	prompt := e.buildPrompt(transcription)

	return backoff.Retry(ctx, func() (map[string]any, error) {
		fields, status, err := e.call(ctx, prompt)
		if err != nil {
			if status == http.StatusTooManyRequests {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return fields, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
}

func (e *GeminiExtractor) call(ctx context.Context, prompt string) (map[string]any, int, error) {
	geminiReq := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.1,
		},
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, 0, err
	}

	endpoint := fmt.Sprintf(
		"%s/v1beta/models/gemini-2.0-flash:generateContent",
		e.BaseURL,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("x-goog-api-key", e.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := e.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(resByte, &parsed); err != nil {
		return nil, res.StatusCode, err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, res.StatusCode, fmt.Errorf("empty gemini response")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(parsed.Candidates[0].Content.Parts[0].Text), &fields); err != nil {
		return nil, res.StatusCode, fmt.Errorf("gemini returned non-JSON payload: %w", err)
	}

	return fields, res.StatusCode, nil
}

func (e *GeminiExtractor) buildPrompt(transcription string) string {
	var b strings.Builder
	b.WriteString("Ты извлекаешь данные о визите клиента в магазин из расшифровки голосовой заметки продавца.\n")
	b.WriteString("Верни JSON-объект только с теми полями, которые явно упомянуты в тексте. Ничего не придумывай.\n\n")
	b.WriteString("Допустимые значения:\n")

	keys := make([]string, 0, len(e.allowed))
	for k := range e.allowed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("- %s: %s\n", k, strings.Join(e.allowed[k], ", ")))
	}

	if len(e.numeric) > 0 {
		b.WriteString(fmt.Sprintf("\nЧисловые поля (возвращай числом, без валюты): %s\n", strings.Join(e.numeric, ", ")))
	}

	b.WriteString("\nРасшифровка:\n")
	b.WriteString(transcription)
	return b.String()
}
