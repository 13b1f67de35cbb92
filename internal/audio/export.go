package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// ExportOptions control encoding at export time.
type ExportOptions struct {
	// Format is the container/codec, "mp3" or "wav".
	Format string
	// Bitrate is the constant mp3 bitrate (e.g. "256k"). Ignored for wav
	// and when VBRQuality is set.
	Bitrate string
	// SampleRateHz resamples the output when it differs from the segment's
	// rate. Zero keeps the segment's rate.
	SampleRateHz int
	// Channels is the output channel count. Zero means stereo.
	Channels int
	// VBRQuality selects variable-bitrate mp3 encoding when >= 0, where 0
	// is the highest quality. Negative disables VBR.
	VBRQuality int
}

// Export encodes the segment to path. WAV is written directly; mp3 goes
// through ffmpeg, which must be on PATH.
func (s *Segment) Export(ctx context.Context, path string, opts ExportOptions) error {
	switch strings.ToLower(opts.Format) {
	case "wav":
		return s.exportWAV(path, opts)
	case "mp3", "":
		return s.exportMP3(ctx, path, opts)
	default:
		return fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

func (s *Segment) exportWAV(path string, opts ExportOptions) error {
	out := s
	if opts.SampleRateHz > 0 && beep.SampleRate(opts.SampleRateHz) != s.rate {
		samples, err := s.resampled(beep.SampleRate(opts.SampleRateHz))
		if err != nil {
			return fmt.Errorf("failed to resample: %w", err)
		}
		out = &Segment{rate: beep.SampleRate(opts.SampleRateHz), samples: samples}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  out.rate,
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(f, out.Streamer(), format); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}

// exportMP3 writes the samples to a temporary wav and hands encoding to
// ffmpeg. Resampling and channel mapping are done by ffmpeg via -ar/-ac,
// the same parameters the mix stage has always used.
func (s *Segment) exportMP3(ctx context.Context, path string, opts ExportOptions) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "segment-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := s.exportWAV(tmpPath, ExportOptions{Format: "wav"}); err != nil {
		return err
	}

	args := []string{"-y", "-loglevel", "error", "-i", tmpPath}
	if opts.VBRQuality >= 0 {
		args = append(args, "-q:a", strconv.Itoa(opts.VBRQuality))
	} else if opts.Bitrate != "" {
		args = append(args, "-b:a", opts.Bitrate)
	}
	if opts.SampleRateHz > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRateHz))
	}
	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}
	args = append(args, path)

	log.Debug("encoding mp3", "path", path, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w: %s", err, stderr.String())
	}
	return nil
}
