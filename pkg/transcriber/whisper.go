package transcriber

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// WhisperTranscriber talks to a whisper.cpp server over HTTP. The server's
// /inference endpoint takes a multipart file and returns {"text": ...}.
type WhisperTranscriber struct {
	client *resty.Client
	opt    WhisperOption
}

type WhisperOption struct {
	URL   string `json:"url" yaml:"url"`
	Model string `json:"model" yaml:"model"`
}

type whisperResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func NewWhisperTranscriber(opt WhisperOption) *WhisperTranscriber {
	return &WhisperTranscriber{
		client: resty.New(),
		opt:    opt,
	}
}

func (w *WhisperTranscriber) Vendor() string {
	return "whisper"
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("whisper: audio file not readable: %w", err)
	}

	start := time.Now()
	var out whisperResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetFile("file", audioPath).
		SetFormData(map[string]string{
			"model":           w.opt.Model,
			"response_format": "json",
			"temperature":     "0.0",
		}).
		SetResult(&out).
		Post(w.opt.URL)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url":  w.opt.URL,
			"file": audioPath,
		}).WithError(err).Error("whisper: request failed")
		return nil, timeoutErr(ctx, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("whisper: http %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Error != "" {
		return nil, fmt.Errorf("whisper: %s", out.Error)
	}

	elapsed := time.Since(start)
	logrus.WithFields(logrus.Fields{
		"file":    audioPath,
		"elapsed": elapsed,
	}).Debug("whisper: transcription complete")

	return &Result{Text: out.Text, Elapsed: elapsed}, nil
}
