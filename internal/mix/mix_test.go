package mix

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/podcast-forge/internal/audio"
)

// writeClip renders a tone of the given duration to a wav file.
func writeClip(t *testing.T, path string, d time.Duration) {
	t.Helper()
	rate := beep.SampleRate(48000)
	n := rate.N(d)
	samples := make([][2]float64, n)
	for i := range samples {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
		samples[i] = [2]float64{v, v}
	}
	require.NoError(t, audio.NewSegment(rate, samples).Export(t.Context(), path, audio.ExportOptions{Format: "wav"}))
}

// testMixer renders wav so tests run without an mp3 encoder on PATH.
func testMixer(outputDir string) *Mixer {
	m := New(outputDir)
	m.Format = "wav"
	m.SampleRateHz = 48000
	return m
}

func TestMixEmptyInput(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "podcast")
	m := testMixer(outDir)

	out := m.Mix(t.Context(), nil, DefaultCrossfade)
	assert.Empty(t, out)

	// nothing was written, not even the output directory
	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestMixMissingFileAborts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "podcast")
	m := testMixer(outDir)

	present := filepath.Join(dir, "000_A.wav")
	writeClip(t, present, 300*time.Millisecond)

	// seed a final track from a "previous run"
	require.NoError(t, os.MkdirAll(outDir, 0755))
	prior := filepath.Join(outDir, "podcast_final.wav")
	require.NoError(t, os.WriteFile(prior, []byte("prior mix"), 0644))

	out := m.Mix(t.Context(), []string{present, filepath.Join(dir, "missing.wav")}, DefaultCrossfade)
	assert.Empty(t, out)

	// the pre-existing track from the prior successful run is untouched
	data, err := os.ReadFile(prior)
	require.NoError(t, err)
	assert.Equal(t, []byte("prior mix"), data)
}

func TestMixSingleFile(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "000_A.wav")
	writeClip(t, clip, 400*time.Millisecond)

	m := testMixer(filepath.Join(dir, "podcast"))
	out := m.Mix(t.Context(), []string{clip}, DefaultCrossfade)
	require.NotEmpty(t, out)
	assert.True(t, filepath.IsAbs(out))
	assert.Equal(t, "podcast_final.wav", filepath.Base(out))

	seg, err := audio.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 400*time.Millisecond, seg.Duration())
}

func TestMixMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, name := range []string{"000_A.wav", "001_B.wav", "002_A.wav"} {
		path := filepath.Join(dir, name)
		writeClip(t, path, time.Duration(300+100*i)*time.Millisecond)
		files = append(files, path)
	}

	m := testMixer(filepath.Join(dir, "podcast"))
	out := m.Mix(t.Context(), files, DefaultCrossfade)
	require.NotEmpty(t, out)

	seg, err := audio.Decode(out)
	require.NoError(t, err)

	// each appended segment adds its duration plus the lead-in, minus the
	// crossfade window consumed by the overlap
	want := 300*time.Millisecond +
		(DefaultLeadIn + 400*time.Millisecond - DefaultCrossfade) +
		(DefaultLeadIn + 500*time.Millisecond - DefaultCrossfade)
	assert.InDelta(t, want.Milliseconds(), seg.Duration().Milliseconds(), 2)
	assert.Equal(t, beep.SampleRate(48000), seg.SampleRate())
}

func TestMixResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, filepath.Join(dir, "000_A.wav"), 300*time.Millisecond)
	t.Chdir(dir)

	m := testMixer(filepath.Join(dir, "podcast"))
	out := m.Mix(t.Context(), []string{"000_A.wav"}, DefaultCrossfade)
	require.NotEmpty(t, out)
	assert.True(t, filepath.IsAbs(out))
}

func TestMixOverwritesPriorRun(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "000_A.wav")
	writeClip(t, clip, 300*time.Millisecond)

	m := testMixer(filepath.Join(dir, "podcast"))
	first := m.Mix(t.Context(), []string{clip}, DefaultCrossfade)
	require.NotEmpty(t, first)

	second := m.Mix(t.Context(), []string{clip}, DefaultCrossfade)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Dir(first))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMixCorruptSegmentFails(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "000_A.wav")
	writeClip(t, good, 300*time.Millisecond)
	bad := filepath.Join(dir, "001_B.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not audio"), 0644))

	m := testMixer(filepath.Join(dir, "podcast"))
	out := m.Mix(t.Context(), []string{good, bad}, DefaultCrossfade)
	assert.Empty(t, out)
}
