package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Preview a rendered segment or the final mix through the speakers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}

		var (
			streamer beep.StreamSeekCloser
			format   beep.Format
		)
		switch ext := strings.ToLower(filepath.Ext(args[0])); ext {
		case ".mp3":
			streamer, format, err = mp3.Decode(f)
		case ".wav":
			streamer, format, err = wav.Decode(f)
		default:
			f.Close()
			return fmt.Errorf("unsupported audio format %q", ext)
		}
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}
		defer streamer.Close()

		if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}

		log.Info("playing", "path", args[0], "sampleRate", format.SampleRate)

		done := make(chan struct{})
		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			close(done)
		})))
		select {
		case <-done:
		case <-cmd.Context().Done():
			speaker.Clear()
			return cmd.Context().Err()
		}
		return nil
	},
}
