package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini-tts"

// OpenAI synthesizes speech through the OpenAI audio speech API. The voice ID
// in a profile maps to one of the built-in OpenAI voice names (alloy, nova,
// onyx, ...). Prosody sliders have no OpenAI equivalent and are ignored.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return &OpenAI{client: openai.NewClient(option.WithAPIKey(apiKey))}, nil
}

func (p *OpenAI) Name() string { return "openai" }

// Synthesize requests a clip and returns the response body as a chunk stream.
// Profiles carry ElevenLabs model IDs by default, so anything that is not a
// gpt-* model falls back to the OpenAI TTS default.
func (p *OpenAI) Synthesize(ctx context.Context, req Request) (Stream, error) {
	model := req.ModelID
	if !strings.HasPrefix(model, "gpt-") {
		model = defaultOpenAIModel
	}

	log.Debug("requesting synthesis", "provider", p.Name(), "voice", req.VoiceID, "model", model, "chars", len(req.Text))

	resp, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(model),
		Input:          req.Text,
		Voice:          openai.AudioSpeechNewParamsVoice(req.VoiceID),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request failed: %w", err)
	}

	return newReaderStream(resp.Body), nil
}
