package audio

// RenderSettings governs how every produced file is exported. The synthesizer
// and the mixer share one value so intermediate segments and the final track
// stay in a consistent format and sample rate.
type RenderSettings struct {
	Format           string  `mapstructure:"format"`
	SampleRateHz     int     `mapstructure:"sample_rate"`
	Channels         int     `mapstructure:"channels"`
	Bitrate          string  `mapstructure:"bitrate"`
	Normalize        bool    `mapstructure:"normalize"`
	TargetLoudnessDB float64 `mapstructure:"target_loudness"`
	CompressionRatio float64 `mapstructure:"compression_ratio"`
	// GainBoostDB is applied on top of normalization to compensate for
	// perceived quietness of normalized speech. Tuned by ear for mp3.
	GainBoostDB float64 `mapstructure:"gain_boost"`
}

// DefaultRenderSettings returns the product-tuned export defaults.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Format:           "mp3",
		SampleRateHz:     48000,
		Channels:         2,
		Bitrate:          "256k",
		Normalize:        true,
		TargetLoudnessDB: -14.0,
		CompressionRatio: 2.0,
		GainBoostDB:      4.0,
	}
}
