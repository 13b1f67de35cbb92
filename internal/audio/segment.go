// Package audio decodes, transforms, and exports audio clips for the podcast
// pipeline. Clips are held fully in memory as stereo float64 samples; all
// transforms operate on the sample buffer, encoding happens only at export.
package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// NormalizeHeadroomDB is how far below full scale peak normalization aims.
const NormalizeHeadroomDB = 0.1

// resampleQuality for beep.Resample. 4 is beep's recommended quality/speed
// tradeoff for non-realtime use.
const resampleQuality = 4

// Segment is a decoded audio clip: interleaved stereo samples at one rate.
type Segment struct {
	rate    beep.SampleRate
	samples [][2]float64
}

// NewSegment wraps raw samples in a Segment.
func NewSegment(rate beep.SampleRate, samples [][2]float64) *Segment {
	return &Segment{rate: rate, samples: samples}
}

// Decode reads an audio file fully into memory. The container is chosen by
// file extension; mp3 and wav cover everything the pipeline produces.
func Decode(path string) (*Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	samples, err := collect(streamer)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples from %s: %w", path, err)
	}
	return &Segment{rate: format.SampleRate, samples: samples}, nil
}

// Silence produces a segment of zero samples.
func Silence(d time.Duration, rate beep.SampleRate) *Segment {
	return &Segment{rate: rate, samples: make([][2]float64, rate.N(d))}
}

// Len returns the number of sample frames.
func (s *Segment) Len() int { return len(s.samples) }

// SampleRate returns the segment's sample rate.
func (s *Segment) SampleRate() beep.SampleRate { return s.rate }

// Duration returns the playback length of the segment.
func (s *Segment) Duration() time.Duration { return s.rate.D(len(s.samples)) }

// Peak returns the largest absolute sample value across both channels.
func (s *Segment) Peak() float64 {
	var peak float64
	for _, frame := range s.samples {
		if v := math.Abs(frame[0]); v > peak {
			peak = v
		}
		if v := math.Abs(frame[1]); v > peak {
			peak = v
		}
	}
	return peak
}

// Gain applies a fixed gain in decibels to every sample.
func (s *Segment) Gain(db float64) {
	scale := math.Pow(10, db/20)
	for i := range s.samples {
		s.samples[i][0] *= scale
		s.samples[i][1] *= scale
	}
}

// Normalize scales the segment so its peak sits headroomDB below full scale.
// A silent segment is left untouched. This equalizes per-clip level
// differences between voices; callers typically follow it with a fixed Gain
// boost to restore perceived loudness.
func (s *Segment) Normalize(headroomDB float64) {
	peak := s.Peak()
	if peak == 0 {
		return
	}
	target := math.Pow(10, -headroomDB/20)
	scale := target / peak
	for i := range s.samples {
		s.samples[i][0] *= scale
		s.samples[i][1] *= scale
	}
}

// Prepend inserts another segment in front of this one. The lead-in is
// resampled if its rate differs.
func (s *Segment) Prepend(lead *Segment) error {
	head := lead.samples
	if lead.rate != s.rate {
		resampled, err := lead.resampled(s.rate)
		if err != nil {
			return err
		}
		head = resampled
	}
	joined := make([][2]float64, 0, len(head)+len(s.samples))
	joined = append(joined, head...)
	joined = append(joined, s.samples...)
	s.samples = joined
	return nil
}

// AppendCrossfade joins b onto the end of a, blending the tail of a with the
// head of b over the crossfade window with a linear equal-gain ramp. The
// result keeps a's sample rate; b is resampled if it differs. A crossfade
// longer than either segment is an error, mirroring how a hard overlap would
// consume material that does not exist.
func AppendCrossfade(a, b *Segment, crossfade time.Duration) (*Segment, error) {
	incoming := b.samples
	if b.rate != a.rate {
		resampled, err := b.resampled(a.rate)
		if err != nil {
			return nil, err
		}
		incoming = resampled
	}

	n := a.rate.N(crossfade)
	if n > len(a.samples) || n > len(incoming) {
		return nil, fmt.Errorf("crossfade %v is longer than a segment (%d > min(%d, %d) frames)",
			crossfade, n, len(a.samples), len(incoming))
	}

	out := make([][2]float64, 0, len(a.samples)+len(incoming)-n)
	out = append(out, a.samples[:len(a.samples)-n]...)
	for i := range n {
		t := float64(i+1) / float64(n+1)
		tail := a.samples[len(a.samples)-n+i]
		head := incoming[i]
		out = append(out, [2]float64{
			tail[0]*(1-t) + head[0]*t,
			tail[1]*(1-t) + head[1]*t,
		})
	}
	out = append(out, incoming[n:]...)

	return &Segment{rate: a.rate, samples: out}, nil
}

// Streamer returns a beep.Streamer over the segment's samples.
func (s *Segment) Streamer() beep.Streamer {
	return &sampleStreamer{samples: s.samples}
}

// resampled converts the segment's samples to another rate.
func (s *Segment) resampled(rate beep.SampleRate) ([][2]float64, error) {
	return collect(beep.Resample(resampleQuality, s.rate, rate, s.Streamer()))
}

// collect drains a streamer into a sample buffer.
func collect(streamer beep.Streamer) ([][2]float64, error) {
	var samples [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buf)
		samples = append(samples, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

type sampleStreamer struct {
	samples [][2]float64
	pos     int
}

func (s *sampleStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy(out, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sampleStreamer) Err() error { return nil }
