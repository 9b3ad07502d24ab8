package transcriber

import "fmt"

const (
	ProviderWhisper = "whisper"
	ProviderOpenAI  = "openai"
)

// FactoryOptions carries the per-provider settings; only the fields for the
// selected provider are consulted.
type FactoryOptions struct {
	Provider string

	WhisperURL   string
	WhisperModel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// New builds the configured transcription service.
func New(opt FactoryOptions) (Service, error) {
	switch opt.Provider {
	case ProviderWhisper, "":
		if opt.WhisperURL == "" {
			return nil, fmt.Errorf("transcriber: whisper url not configured")
		}
		return NewWhisperTranscriber(WhisperOption{URL: opt.WhisperURL, Model: opt.WhisperModel}), nil
	case ProviderOpenAI:
		if opt.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("transcriber: openai api key not configured")
		}
		return NewOpenAITranscriber(OpenAIOption{
			APIKey:  opt.OpenAIAPIKey,
			BaseURL: opt.OpenAIBaseURL,
			Model:   opt.OpenAIModel,
		}), nil
	default:
		return nil, fmt.Errorf("transcriber: unknown provider %q", opt.Provider)
	}
}
