package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(baseURL string) *GeminiExtractor {
	e := NewGeminiExtractor(
		"test-key",
		map[string][]string{
			"Purchase_status": {"купили", "не купили"},
			"Type_of_client":  {"новый", "повторный"},
		},
		[]string{"Ticket_amount"},
	)
	e.BaseURL = baseURL
	return e
}

func geminiBody(fieldsJSON string) string {
	wrapper := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": fieldsJSON}}}},
		},
	}
	b, _ := json.Marshal(wrapper)
	return string(b)
}

func TestExtractParsesFieldMap(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		gotPrompt = req.Contents[0].Parts[0].Text
		require.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		w.Write([]byte(geminiBody(`{"Purchase_status": "купили", "Ticket_amount": 15000}`)))
	}))
	defer srv.Close()

	fields, err := newTestExtractor(srv.URL).Extract(context.Background(), "новый клиент купил обои на 15000")
	require.NoError(t, err)

	assert.Equal(t, "купили", fields["Purchase_status"])
	assert.Equal(t, float64(15000), fields["Ticket_amount"])
	assert.Contains(t, gotPrompt, "Purchase_status")
	assert.Contains(t, gotPrompt, "новый клиент купил обои на 15000")
}

func TestExtractRetriesOnRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiBody(`{"Type_of_client": "новый"}`)))
	}))
	defer srv.Close()

	fields, err := newTestExtractor(srv.URL).Extract(context.Background(), "зашёл новый клиент")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "новый", fields["Type_of_client"])
}

func TestExtractDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad api key", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "зашёл новый клиент")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExtractEmptyTranscription(t *testing.T) {
	fields, err := newTestExtractor("http://unused").Extract(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, fields)
}
