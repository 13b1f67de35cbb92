// Package synth renders each dialogue line to its own audio file through a
// TTS provider. Synthesis is partial-failure tolerant: a bad line is logged
// and dropped, the batch always runs to completion and returns whatever was
// produced.
package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/blacktop/podcast-forge/internal/audio"
	"github.com/blacktop/podcast-forge/internal/script"
	"github.com/blacktop/podcast-forge/internal/tts"
	"github.com/blacktop/podcast-forge/internal/voice"
)

// Synthesizer turns dialogue lines into per-line audio files.
type Synthesizer struct {
	provider  tts.Provider
	voices    *voice.Registry
	render    audio.RenderSettings
	outputDir string
}

// New creates a Synthesizer. The registry must be fully populated before
// SynthesizeAll is called; it is not consulted for changes mid-run.
func New(provider tts.Provider, voices *voice.Registry, render audio.RenderSettings, outputDir string) *Synthesizer {
	return &Synthesizer{
		provider:  provider,
		voices:    voices,
		render:    render,
		outputDir: outputDir,
	}
}

// SynthesizeAll renders every synthesizable line, in input order, one at a
// time. Each produced file is named {index:03d}_{speaker}.{format}; the
// zero-padded ordinal is the only ordering key downstream consumers rely on,
// so skipped lines leave gaps rather than renumbering.
//
// The returned paths are sorted ascending by filename, which by construction
// is original script order. The error is non-nil only when the output
// directory cannot be created; per-line failures never abort the batch.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, lines []script.Line) ([]string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	for i, raw := range lines {
		line := raw.Trimmed()
		if line.Empty() {
			log.Warn("skipping segment: missing speaker or text", "index", i)
			continue
		}

		profile, ok := s.voices.Lookup(line.Speaker)
		if !ok {
			log.Warn("skipping unknown speaker", "index", i, "speaker", line.Speaker)
			continue
		}

		path, err := s.renderLine(ctx, i, line, profile)
		if err != nil {
			log.Error("failed to process segment", "index", i, "speaker", line.Speaker, "error", err)
			continue
		}

		files = append(files, path)
		log.Info("audio content written", "path", path)
	}

	sort.Strings(files)
	return files, nil
}

// renderLine synthesizes one line, writes it to disk, and optionally
// normalizes it in place.
func (s *Synthesizer) renderLine(ctx context.Context, index int, line script.Line, profile voice.Profile) (string, error) {
	stream, err := s.provider.Synthesize(ctx, tts.Request{
		Text:    line.Text,
		VoiceID: profile.VoiceID,
		ModelID: profile.Settings.ModelID,
		Format:  profile.Settings.OutputFormat,
		Settings: tts.Settings{
			Stability:         profile.Settings.Stability,
			SimilarityBoost:   profile.Settings.SimilarityBoost,
			Style:             profile.Settings.Style,
			UseSpeakerBoost:   profile.Settings.UseSpeakerBoost,
			TextNormalization: string(profile.Settings.TextNormalization),
		},
	})
	if err != nil {
		return "", err
	}

	// Buffer the full clip before touching disk. There is no partial-file
	// streaming contract: either the whole payload lands or nothing does.
	data, err := tts.ReadAll(stream)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("%03d_%s.%s", index, line.Speaker, s.render.Format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write segment: %w", err)
	}

	if s.render.Normalize {
		if err := s.normalizeInPlace(ctx, path); err != nil {
			return "", fmt.Errorf("failed to normalize segment: %w", err)
		}
	}

	return path, nil
}

// normalizeInPlace re-opens a freshly written segment, equalizes its peak
// level, applies the fixed post-normalization boost, and re-exports over the
// same path with the configured bitrate and sample rate. Normalization evens
// out level differences between voices; the boost compensates for perceived
// quietness afterwards.
func (s *Synthesizer) normalizeInPlace(ctx context.Context, path string) error {
	seg, err := audio.Decode(path)
	if err != nil {
		return err
	}

	seg.Normalize(audio.NormalizeHeadroomDB)
	seg.Gain(s.render.GainBoostDB)

	return seg.Export(ctx, path, audio.ExportOptions{
		Format:       s.render.Format,
		Bitrate:      s.render.Bitrate,
		SampleRateHz: s.render.SampleRateHz,
		Channels:     s.render.Channels,
		VBRQuality:   -1,
	})
}
