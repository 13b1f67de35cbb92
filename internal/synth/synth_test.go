package synth

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/podcast-forge/internal/audio"
	"github.com/blacktop/podcast-forge/internal/script"
	"github.com/blacktop/podcast-forge/internal/tts"
	"github.com/blacktop/podcast-forge/internal/voice"
)

// fakeStream serves a canned payload in one chunk.
type fakeStream struct {
	data []byte
	done bool
}

func (s *fakeStream) Read() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.data, nil
}

func (s *fakeStream) Close() error { return nil }

// fakeProvider records requests and fails on demand, keyed by line text.
type fakeProvider struct {
	payload  []byte
	failText map[string]bool
	requests []tts.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Synthesize(_ context.Context, req tts.Request) (tts.Stream, error) {
	f.requests = append(f.requests, req)
	if f.failText[req.Text] {
		return nil, errors.New("simulated provider error")
	}
	return &fakeStream{data: f.payload}, nil
}

// wavPayload renders a short quiet tone to wav bytes, so the normalize pass
// has something real to decode.
func wavPayload(t *testing.T, amplitude float64) []byte {
	t.Helper()
	n := 4410 // 100ms at 44.1kHz
	samples := make([][2]float64, n)
	for i := range samples {
		v := amplitude * math.Sin(2*math.Pi*440*float64(i)/44100)
		samples[i] = [2]float64{v, v}
	}
	path := filepath.Join(t.TempDir(), "payload.wav")
	require.NoError(t, audio.NewSegment(44100, samples).Export(t.Context(), path, audio.ExportOptions{Format: "wav"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func testRegistry() *voice.Registry {
	r := voice.NewRegistry()
	r.Add("Alex", "voice-alex", nil)
	r.Add("Sam", "voice-sam", nil)
	return r
}

func testRender() audio.RenderSettings {
	rs := audio.DefaultRenderSettings()
	rs.Format = "wav"
	rs.Normalize = false
	return rs
}

func TestSynthesizeAll(t *testing.T) {
	provider := &fakeProvider{payload: wavPayload(t, 0.5)}
	outDir := filepath.Join(t.TempDir(), "audio-files")
	s := New(provider, testRegistry(), testRender(), outDir)

	lines := []script.Line{
		{Speaker: "Alex", Text: "Hi"},
		{Speaker: "Sam", Text: "Hello"},
		{Speaker: "Alex", Text: "Bye"},
	}

	files, err := s.SynthesizeAll(t.Context(), lines)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "000_Alex.wav", filepath.Base(files[0]))
	assert.Equal(t, "001_Sam.wav", filepath.Base(files[1]))
	assert.Equal(t, "002_Alex.wav", filepath.Base(files[2]))

	// output directory was created and the files decode
	for _, f := range files {
		_, err := audio.Decode(f)
		assert.NoError(t, err)
	}

	// provider saw the registered voices and default prosody
	require.Len(t, provider.requests, 3)
	assert.Equal(t, "voice-alex", provider.requests[0].VoiceID)
	assert.Equal(t, "voice-sam", provider.requests[1].VoiceID)
	assert.Equal(t, 0.45, provider.requests[0].Settings.Stability)
	assert.Equal(t, "eleven_multilingual_v2", provider.requests[0].ModelID)
}

func TestSynthesizeAllSkipsEmptyLines(t *testing.T) {
	provider := &fakeProvider{payload: wavPayload(t, 0.5)}
	s := New(provider, testRegistry(), testRender(), t.TempDir())

	lines := []script.Line{
		{Speaker: "Alex", Text: "Hi"},
		{Speaker: "", Text: "no speaker"},
		{Speaker: "Sam", Text: "   "},
		{Speaker: "Alex", Text: "Bye"},
	}

	files, err := s.SynthesizeAll(t.Context(), lines)
	require.NoError(t, err)
	require.Len(t, files, 2)

	// skipped lines leave gaps in the ordinal sequence, never renumbering
	assert.Equal(t, "000_Alex.wav", filepath.Base(files[0]))
	assert.Equal(t, "003_Alex.wav", filepath.Base(files[1]))
	assert.Len(t, provider.requests, 2)
}

func TestSynthesizeAllSkipsUnknownSpeaker(t *testing.T) {
	provider := &fakeProvider{payload: wavPayload(t, 0.5)}
	s := New(provider, testRegistry(), testRender(), t.TempDir())

	lines := []script.Line{
		{Speaker: "Alex", Text: "Hi"},
		{Speaker: "Rando", Text: "Who am I?"},
		{Speaker: "Sam", Text: "Hello"},
	}

	files, err := s.SynthesizeAll(t.Context(), lines)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "000_Alex.wav", filepath.Base(files[0]))
	assert.Equal(t, "002_Sam.wav", filepath.Base(files[1]))
}

func TestSynthesizeAllProviderFailureDropsLine(t *testing.T) {
	provider := &fakeProvider{
		payload:  wavPayload(t, 0.5),
		failText: map[string]bool{"Hello": true},
	}
	outDir := t.TempDir()
	s := New(provider, testRegistry(), testRender(), outDir)

	lines := []script.Line{
		{Speaker: "Alex", Text: "Hi"},
		{Speaker: "Sam", Text: "Hello"},
		{Speaker: "Alex", Text: "Bye"},
	}

	files, err := s.SynthesizeAll(t.Context(), lines)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "000_Alex.wav", filepath.Base(files[0]))
	assert.Equal(t, "002_Alex.wav", filepath.Base(files[1]))

	// the failed line produced no file
	_, statErr := os.Stat(filepath.Join(outDir, "001_Sam.wav"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSynthesizeAllEverythingFails(t *testing.T) {
	provider := &fakeProvider{
		payload:  wavPayload(t, 0.5),
		failText: map[string]bool{"Hi": true, "Hello": true},
	}
	s := New(provider, testRegistry(), testRender(), t.TempDir())

	files, err := s.SynthesizeAll(t.Context(), []script.Line{
		{Speaker: "Alex", Text: "Hi"},
		{Speaker: "Sam", Text: "Hello"},
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSynthesizeAllTrimsWhitespace(t *testing.T) {
	provider := &fakeProvider{payload: wavPayload(t, 0.5)}
	s := New(provider, testRegistry(), testRender(), t.TempDir())

	files, err := s.SynthesizeAll(t.Context(), []script.Line{
		{Speaker: "  Alex ", Text: " Hi there\n"},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "000_Alex.wav", filepath.Base(files[0]))
	assert.Equal(t, "Hi there", provider.requests[0].Text)
}

func TestSynthesizeAllNormalizes(t *testing.T) {
	// quiet source clip so the normalize pass visibly raises the level
	provider := &fakeProvider{payload: wavPayload(t, 0.1)}
	render := testRender()
	render.Normalize = true
	render.SampleRateHz = 44100
	s := New(provider, testRegistry(), render, t.TempDir())

	files, err := s.SynthesizeAll(t.Context(), []script.Line{{Speaker: "Alex", Text: "Hi"}})
	require.NoError(t, err)
	require.Len(t, files, 1)

	seg, err := audio.Decode(files[0])
	require.NoError(t, err)
	// peak normalization plus the +4 dB boost pushes the quiet clip to
	// (clipped) full scale, far above its original 0.1 peak
	assert.Greater(t, seg.Peak(), 0.9)
	assert.Equal(t, 100*time.Millisecond, seg.Duration())
}
