// Package config loads the podcast-forge configuration: which TTS provider
// to use, the speaker voice map, render settings, output directories, and
// mix parameters. Everything has a default; a config file only needs to name
// the speakers.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/blacktop/podcast-forge/internal/audio"
	"github.com/blacktop/podcast-forge/internal/voice"
)

// Config is the root configuration.
type Config struct {
	Provider string               `mapstructure:"provider"`
	Speakers []SpeakerConfig      `mapstructure:"speakers"`
	Audio    audio.RenderSettings `mapstructure:"audio"`
	Output   OutputConfig         `mapstructure:"output"`
	Mix      MixConfig            `mapstructure:"mix"`
}

// OutputConfig holds the output directories. Per-line segments and the final
// track live in separate directories so a re-mix never disturbs segments.
type OutputConfig struct {
	SegmentsDir string `mapstructure:"segments_dir"`
	PodcastDir  string `mapstructure:"podcast_dir"`
}

// MixConfig holds the mix-stage parameters.
type MixConfig struct {
	CrossfadeMs int    `mapstructure:"crossfade_ms"`
	LeadInMs    int    `mapstructure:"lead_in_ms"`
	Format      string `mapstructure:"format"`
	SampleRate  int    `mapstructure:"sample_rate"`
	VBRQuality  int    `mapstructure:"vbr_quality"`
}

// SpeakerConfig maps one speaker name to a provider voice. Speakers are a
// list rather than a map because viper lowercases map keys and speaker names
// are case-sensitive. Prosody fields are pointers so "not set" falls through
// to the product defaults instead of zeroing the sliders.
type SpeakerConfig struct {
	Name              string   `mapstructure:"name"`
	VoiceID           string   `mapstructure:"voice_id"`
	Stability         *float64 `mapstructure:"stability"`
	SimilarityBoost   *float64 `mapstructure:"similarity_boost"`
	Style             *float64 `mapstructure:"style"`
	UseSpeakerBoost   *bool    `mapstructure:"use_speaker_boost"`
	ModelID           string   `mapstructure:"model_id"`
	OutputFormat      string   `mapstructure:"output_format"`
	TextNormalization string   `mapstructure:"text_normalization"`
}

// Settings resolves the speaker's overrides on top of the defaults.
func (sc SpeakerConfig) Settings() voice.Settings {
	s := voice.DefaultSettings()
	if sc.Stability != nil {
		s.Stability = *sc.Stability
	}
	if sc.SimilarityBoost != nil {
		s.SimilarityBoost = *sc.SimilarityBoost
	}
	if sc.Style != nil {
		s.Style = *sc.Style
	}
	if sc.UseSpeakerBoost != nil {
		s.UseSpeakerBoost = *sc.UseSpeakerBoost
	}
	if sc.ModelID != "" {
		s.ModelID = sc.ModelID
	}
	if sc.OutputFormat != "" {
		s.OutputFormat = sc.OutputFormat
	}
	if sc.TextNormalization != "" {
		s.TextNormalization = voice.TextNormalization(sc.TextNormalization)
	}
	return s
}

// Registry builds the voice registry from the configured speakers. Later
// entries with the same name win, matching registry Add semantics.
func (c *Config) Registry() *voice.Registry {
	r := voice.NewRegistry()
	for _, sc := range c.Speakers {
		settings := sc.Settings()
		r.Add(sc.Name, sc.VoiceID, &settings)
	}
	return r
}

func setDefaults(v *viper.Viper) {
	rs := audio.DefaultRenderSettings()

	v.SetDefault("provider", "elevenlabs")
	v.SetDefault("audio.format", rs.Format)
	v.SetDefault("audio.sample_rate", rs.SampleRateHz)
	v.SetDefault("audio.channels", rs.Channels)
	v.SetDefault("audio.bitrate", rs.Bitrate)
	v.SetDefault("audio.normalize", rs.Normalize)
	v.SetDefault("audio.target_loudness", rs.TargetLoudnessDB)
	v.SetDefault("audio.compression_ratio", rs.CompressionRatio)
	v.SetDefault("audio.gain_boost", rs.GainBoostDB)
	v.SetDefault("output.segments_dir", "output/audio-files")
	v.SetDefault("output.podcast_dir", "output/podcast")
	v.SetDefault("mix.crossfade_ms", 50)
	v.SetDefault("mix.lead_in_ms", 200)
	v.SetDefault("mix.format", "mp3")
	v.SetDefault("mix.sample_rate", 48000)
	v.SetDefault("mix.vbr_quality", 0)
}

// Load reads the config file at path, or falls back to podcast-forge.yaml in
// the working directory. A missing file is fine when no explicit path was
// given; the defaults stand on their own (minus any speakers).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("podcast-forge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/podcast-forge")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			log.Debug("no config file found, using defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("loaded config", "file", used, "speakers", len(cfg.Speakers))
	}
	return &cfg, nil
}
