package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "ru", r.FormValue("language"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "voice.ogg", header.Filename)

		w.Write([]byte(`{"text": "зашёл новый клиент"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "whisper-1", "secret")
	text, err := client.Transcribe(context.Background(), "voice.ogg", strings.NewReader("oggdata"))
	require.NoError(t, err)
	assert.Equal(t, "зашёл новый клиент", text)
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "whisper-1", "")
	_, err := client.Transcribe(context.Background(), "voice.ogg", strings.NewReader("oggdata"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
