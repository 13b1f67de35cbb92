package cmd

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/blacktop/podcast-forge/internal/tts"
)

// newProvider constructs the configured TTS provider. API keys come from the
// environment, never from the config file.
func newProvider(ctx context.Context, name string) (tts.Provider, error) {
	switch name {
	case "elevenlabs", "":
		return tts.NewElevenLabs(os.Getenv("ELEVENLABS_API_KEY"))
	case "openai":
		return tts.NewOpenAI(os.Getenv("OPENAI_API_KEY"))
	case "google":
		key := cmp.Or(os.Getenv("GOOGLE_AI_API_KEY"), os.Getenv("GEMINI_API_KEY"))
		return tts.NewGoogle(ctx, key)
	default:
		return nil, fmt.Errorf("unknown TTS provider %q (want elevenlabs, openai, or google)", name)
	}
}
