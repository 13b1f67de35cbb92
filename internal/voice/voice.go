// Package voice maps named podcast speakers to provider voice identities and
// prosody settings. The registry is built once before a synthesis run and is
// not mutated while the run is in flight.
package voice

// TextNormalization controls whether the provider expands numbers, dates,
// etc. before synthesis.
type TextNormalization string

const (
	TextNormalizationAuto TextNormalization = "auto"
	TextNormalizationOn   TextNormalization = "on"
	TextNormalizationOff  TextNormalization = "off"
)

// Settings holds prosody and model parameters for one voice.
// Stability, SimilarityBoost, and Style are in [0, 1].
type Settings struct {
	Stability         float64           `json:"stability" mapstructure:"stability"`
	SimilarityBoost   float64           `json:"similarity_boost" mapstructure:"similarity_boost"`
	Style             float64           `json:"style" mapstructure:"style"`
	UseSpeakerBoost   bool              `json:"use_speaker_boost" mapstructure:"use_speaker_boost"`
	ModelID           string            `json:"model_id" mapstructure:"model_id"`
	OutputFormat      string            `json:"output_format" mapstructure:"output_format"`
	TextNormalization TextNormalization `json:"text_normalization" mapstructure:"text_normalization"`
}

// DefaultSettings returns the product-tuned defaults used when a speaker's
// config does not override them.
func DefaultSettings() Settings {
	return Settings{
		Stability:         0.45,
		SimilarityBoost:   0.85,
		Style:             0.65,
		UseSpeakerBoost:   true,
		ModelID:           "eleven_multilingual_v2",
		OutputFormat:      "mp3_44100_128",
		TextNormalization: TextNormalizationAuto,
	}
}

// Profile pairs a provider voice ID with its settings for one named speaker.
type Profile struct {
	VoiceID  string
	Settings Settings
}

// Registry maps speaker names to voice profiles. Names are case-sensitive.
type Registry struct {
	profiles map[string]Profile
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// Add registers a voice for a speaker, replacing any existing entry.
// A nil settings pointer registers the defaults.
func (r *Registry) Add(name, voiceID string, settings *Settings) {
	s := DefaultSettings()
	if settings != nil {
		s = *settings
	}
	r.profiles[name] = Profile{VoiceID: voiceID, Settings: s}
}

// Lookup returns the profile for a speaker, if one was registered.
func (r *Registry) Lookup(name string) (Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Len returns the number of registered speakers.
func (r *Registry) Len() int {
	return len(r.profiles)
}
