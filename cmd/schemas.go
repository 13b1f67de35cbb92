package cmd

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Custom schema builders that create LM Studio-compatible schemas
// These avoid using complex additionalProperties objects

func buildSynthesizeDialogueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"dialogue": {
				Type:        "array",
				Description: "Ordered dialogue lines to synthesize",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"speaker": {
							Type:        "string",
							Description: "Speaker name, must match a configured voice",
						},
						"text": {
							Type:        "string",
							Description: "The text this speaker says",
						},
					},
					Required: []string{"speaker", "text"},
				},
			},
		},
		Required: []string{"dialogue"},
	}
}

func buildMixPodcastSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"audio_files": {
				Type:        "array",
				Description: "Audio segment paths in playback order",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"crossfade_ms": {
				Type:        "integer",
				Description: "Crossfade between segments in milliseconds (default: 50)",
				Minimum:     &[]float64{0}[0],
				Maximum:     &[]float64{5000}[0],
			},
		},
		Required: []string{"audio_files"},
	}
}
