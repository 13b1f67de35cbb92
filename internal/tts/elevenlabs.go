package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs synthesizes speech through the ElevenLabs streaming endpoint.
// It is the only provider that honors the full prosody settings surface.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewElevenLabs creates an ElevenLabs provider. The API key is required;
// validation of the key is deferred to the first request.
func NewElevenLabs(apiKey string) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		client:  http.DefaultClient,
	}, nil
}

func (p *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id,omitempty"`
	VoiceSettings          elevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// Synthesize requests a clip from the text-to-speech streaming endpoint and
// returns the response body as a chunk stream.
func (p *ElevenLabs) Synthesize(ctx context.Context, req Request) (Stream, error) {
	payload := elevenLabsRequest{
		Text:    req.Text,
		ModelID: req.ModelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       req.Settings.Stability,
			SimilarityBoost: req.Settings.SimilarityBoost,
			Style:           req.Settings.Style,
			UseSpeakerBoost: req.Settings.UseSpeakerBoost,
		},
		ApplyTextNormalization: req.Settings.TextNormalization,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream", p.baseURL, req.VoiceID)
	if req.Format != "" {
		url += "?output_format=" + req.Format
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	log.Debug("requesting synthesis", "provider", p.Name(), "voice", req.VoiceID, "model", req.ModelID, "chars", len(req.Text))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("elevenlabs API error: %s: %s", resp.Status, string(detail))
	}

	return newReaderStream(resp.Body), nil
}
