package transcriber

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// OpenAITranscriber uses the audio/transcriptions endpoint (whisper-1 and
// compatible gateways).
type OpenAITranscriber struct {
	client *resty.Client
	opt    OpenAIOption
}

type OpenAIOption struct {
	APIKey  string `json:"apiKey" yaml:"api_key"`
	BaseURL string `json:"baseUrl" yaml:"base_url"`
	Model   string `json:"model" yaml:"model"`
}

type openAIResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func NewOpenAITranscriber(opt OpenAIOption) *OpenAITranscriber {
	if opt.BaseURL == "" {
		opt.BaseURL = "https://api.openai.com/v1"
	}
	if opt.Model == "" {
		opt.Model = "whisper-1"
	}
	return &OpenAITranscriber{
		client: resty.New().SetBaseURL(opt.BaseURL),
		opt:    opt,
	}
}

func (o *OpenAITranscriber) Vendor() string {
	return "openai"
}

func (o *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("openai: audio file not readable: %w", err)
	}

	start := time.Now()
	var out openAIResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetAuthToken(o.opt.APIKey).
		SetFile("file", audioPath).
		SetFormData(map[string]string{
			"model":           o.opt.Model,
			"response_format": "json",
		}).
		SetResult(&out).
		Post("/audio/transcriptions")
	if err != nil {
		logrus.WithField("file", audioPath).WithError(err).Error("openai: request failed")
		return nil, timeoutErr(ctx, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openai: http %d: %s", resp.StatusCode(), resp.String())
	}

	return &Result{Text: out.Text, Language: out.Language, Elapsed: time.Since(start)}, nil
}
