package cmd

import (
	"fmt"

	"github.com/caarlos0/ctrlc"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blacktop/podcast-forge/internal/script"
	"github.com/blacktop/podcast-forge/internal/synth"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func init() {
	generateCmd.Flags().IntVar(&mixCrossfadeMs, "crossfade", 0, "crossfade between segments in milliseconds (overrides config)")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <script.json>",
	Short: "Run the full pipeline: synthesize every line, then mix the track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ctrlc.Default.Run(cmd.Context(), func() error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			provider, err := newProvider(cmd.Context(), cfg.Provider)
			if err != nil {
				return err
			}

			synthesizer := synth.New(provider, cfg.Registry(), cfg.Audio, cfg.Output.SegmentsDir)
			files, err := synthesizer.SynthesizeAll(cmd.Context(), s.Dialogue)
			if err != nil {
				return err
			}

			if skipped := len(s.Dialogue) - len(files); skipped > 0 {
				fmt.Println(warnStyle.Render(fmt.Sprintf("⚠ %d of %d lines were skipped", skipped, len(s.Dialogue))))
			}
			if len(files) == 0 {
				return fmt.Errorf("no segments were produced, nothing to mix")
			}

			log.Info("synthesis complete", "segments", len(files))

			out := newMixer().Mix(cmd.Context(), files, crossfade())
			if out == "" {
				return fmt.Errorf("mixing produced no output")
			}

			fmt.Println(successStyle.Render("✓ podcast ready"), pathStyle.Render(out))
			return nil
		})
	},
}
