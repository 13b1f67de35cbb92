package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blacktop/podcast-forge/internal/mix"
)

var mixCrossfadeMs int

func init() {
	mixCmd.Flags().IntVar(&mixCrossfadeMs, "crossfade", 0, "crossfade between segments in milliseconds (overrides config)")
	rootCmd.AddCommand(mixCmd)
}

// newMixer builds a Mixer from the loaded config.
func newMixer() *mix.Mixer {
	m := mix.New(cfg.Output.PodcastDir)
	m.LeadIn = time.Duration(cfg.Mix.LeadInMs) * time.Millisecond
	m.Format = cfg.Mix.Format
	m.SampleRateHz = cfg.Mix.SampleRate
	m.VBRQuality = cfg.Mix.VBRQuality
	return m
}

// crossfade resolves the flag override against the configured default.
func crossfade() time.Duration {
	ms := cfg.Mix.CrossfadeMs
	if mixCrossfadeMs > 0 {
		ms = mixCrossfadeMs
	}
	return time.Duration(ms) * time.Millisecond
}

var mixCmd = &cobra.Command{
	Use:   "mix <segment>...",
	Short: "Merge audio segments into one podcast track",
	Long: `Mix concatenates the given audio files, in order, inserting a short
silence before each segment and blending transitions with a crossfade, then
exports a single track to the podcast output directory.

Mixing is all-or-nothing: if any input is missing or unreadable, no output is
produced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newMixer().Mix(cmd.Context(), args, crossfade())
		if out == "" {
			return fmt.Errorf("mixing produced no output")
		}
		fmt.Println(out)
		return nil
	},
}
