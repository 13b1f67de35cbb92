package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

const (
	defaultGoogleModel      = "gemini-2.5-flash-preview-tts"
	defaultGoogleSampleRate = 24000
)

// Google synthesizes speech through the Gemini TTS models. The voice ID in a
// profile maps to a prebuilt voice name (Kore, Puck, Aoede, ...). Gemini
// returns raw 16-bit PCM, which is wrapped into a WAV container so the rest
// of the pipeline can treat every provider's output as a decodable file.
type Google struct {
	client *genai.Client
}

// NewGoogle creates a Google provider.
func NewGoogle(ctx context.Context, apiKey string) (*Google, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_AI_API_KEY or GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Google{client: client}, nil
}

func (p *Google) Name() string { return "google" }

// Synthesize requests a clip and returns it as a single-chunk stream.
func (p *Google) Synthesize(ctx context.Context, req Request) (Stream, error) {
	model := req.ModelID
	if !strings.HasPrefix(model, "gemini-") {
		model = defaultGoogleModel
	}

	log.Debug("requesting synthesis", "provider", p.Name(), "voice", req.VoiceID, "model", model, "chars", len(req.Text))

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.VoiceID},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Text), config)
	if err != nil {
		return nil, fmt.Errorf("google tts request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("google tts returned no audio")
	}
	part := resp.Candidates[0].Content.Parts[0]
	if part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil, fmt.Errorf("google tts returned no audio data")
	}

	wav := pcmToWAV(part.InlineData.Data, sampleRateFromMIME(part.InlineData.MIMEType))
	return newByteStream(wav), nil
}

// sampleRateFromMIME extracts the rate from a MIME type like
// "audio/L16;codec=pcm;rate=24000", falling back to the Gemini default.
func sampleRateFromMIME(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(param), "rate="); ok {
			if rate, err := strconv.Atoi(rest); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return defaultGoogleSampleRate
}

// pcmToWAV wraps raw 16-bit mono little-endian PCM in a standard WAV header.
func pcmToWAV(pcm []byte, sampleRate int) []byte {
	const channels = 1
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
