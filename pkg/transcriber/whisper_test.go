package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAudio(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....fake"), 0644))
	return path
}

func TestWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "json", r.FormValue("response_format"))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello from the call"}`))
	}))
	defer srv.Close()

	tr := NewWhisperTranscriber(WhisperOption{URL: srv.URL, Model: "base"})
	res, err := tr.Transcribe(context.Background(), writeTestAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "hello from the call", res.Text)
	assert.Equal(t, "whisper", tr.Vendor())
}

func TestWhisperTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewWhisperTranscriber(WhisperOption{URL: srv.URL})
	_, err := tr.Transcribe(context.Background(), writeTestAudio(t))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestWhisperTranscribeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	tr := NewWhisperTranscriber(WhisperOption{URL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.Transcribe(ctx, writeTestAudio(t))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWhisperTranscribeMissingFile(t *testing.T) {
	tr := NewWhisperTranscriber(WhisperOption{URL: "http://localhost:1"})
	_, err := tr.Transcribe(context.Background(), "/nonexistent/audio.wav")
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	svc, err := New(FactoryOptions{Provider: ProviderWhisper, WhisperURL: "http://localhost:8080/inference"})
	require.NoError(t, err)
	assert.Equal(t, "whisper", svc.Vendor())

	svc, err = New(FactoryOptions{Provider: ProviderOpenAI, OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", svc.Vendor())

	_, err = New(FactoryOptions{Provider: "bogus"})
	assert.Error(t, err)

	_, err = New(FactoryOptions{Provider: ProviderWhisper})
	assert.Error(t, err)
}
