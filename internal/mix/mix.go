// Package mix assembles per-line audio segments into one continuous podcast
// track. Unlike synthesis, mixing is all-or-nothing: a missing input or a
// failure anywhere in the chain aborts the whole mix, because a silently
// dropped segment would corrupt the narrative order of the final track.
package mix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blacktop/podcast-forge/internal/audio"
)

// finalTrackName is the fixed basename of the merged track. Each successful
// mix overwrites the previous one; there is no versioning.
const finalTrackName = "podcast_final"

// DefaultCrossfade is the blend window between adjacent segments.
const DefaultCrossfade = 50 * time.Millisecond

// DefaultLeadIn is the silence inserted before each segment after the first,
// so voices never start mid-breath. The crossfade window consumes part of it,
// making the perceptible gap shorter than the literal duration.
const DefaultLeadIn = 200 * time.Millisecond

// Mixer concatenates audio files with lead-in silence and crossfades and
// exports a single track. The zero value is not usable; construct with New.
type Mixer struct {
	// OutputDir is where the final track lands. Created if absent.
	OutputDir string
	// LeadIn is prepended to every segment after the first.
	LeadIn time.Duration
	// Format of the final track.
	Format string
	// SampleRateHz of the final track.
	SampleRateHz int
	// VBRQuality for mp3 export; 0 is the highest-quality variable bitrate.
	VBRQuality int
}

// New creates a Mixer with the production export defaults: mp3, 48 kHz,
// highest-quality VBR, 200 ms lead-in.
func New(outputDir string) *Mixer {
	return &Mixer{
		OutputDir:    outputDir,
		LeadIn:       DefaultLeadIn,
		Format:       "mp3",
		SampleRateHz: 48000,
		VBRQuality:   0,
	}
}

// Mix merges the given files, in order, into {OutputDir}/podcast_final.{fmt}
// and returns its absolute path. An empty input list is a legitimate
// "nothing to do" and returns "" without error or filesystem writes. Any
// failure is logged and converted to an empty result; the mixer never
// propagates an error to its caller.
func (m *Mixer) Mix(ctx context.Context, files []string, crossfade time.Duration) string {
	if len(files) == 0 {
		log.Debug("no audio files provided to mix")
		return ""
	}

	out, err := m.mix(ctx, files, crossfade)
	if err != nil {
		log.Error("failed to mix podcast", "error", err)
		return ""
	}

	log.Info("successfully mixed podcast", "path", out, "segments", len(files))
	return out
}

func (m *Mixer) mix(ctx context.Context, files []string, crossfade time.Duration) (string, error) {
	if err := os.MkdirAll(m.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Resolve and verify every input before decoding anything. A gap in the
	// segment sequence must abort the mix, not skip.
	validated := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("segment file does not exist: %s", abs)
		}
		validated = append(validated, abs)
	}

	mixed, err := audio.Decode(validated[0])
	if err != nil {
		return "", err
	}
	log.Debug("initial segment loaded", "path", validated[0], "duration", mixed.Duration())

	for i, f := range validated[1:] {
		next, err := audio.Decode(f)
		if err != nil {
			return "", err
		}
		if err := next.Prepend(audio.Silence(m.LeadIn, next.SampleRate())); err != nil {
			return "", err
		}
		mixed, err = audio.AppendCrossfade(mixed, next, crossfade)
		if err != nil {
			return "", err
		}
		log.Debug("appended segment", "index", i+1, "path", f, "total", mixed.Duration())
	}

	out, err := filepath.Abs(filepath.Join(m.OutputDir, finalTrackName+"."+m.Format))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := mixed.Export(ctx, out, audio.ExportOptions{
		Format:       m.Format,
		SampleRateHz: m.SampleRateHz,
		VBRQuality:   m.VBRQuality,
	}); err != nil {
		return "", err
	}
	return out, nil
}
