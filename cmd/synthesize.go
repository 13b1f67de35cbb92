package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blacktop/podcast-forge/internal/script"
	"github.com/blacktop/podcast-forge/internal/synth"
)

var synthOutputDir string

func init() {
	synthesizeCmd.Flags().StringVarP(&synthOutputDir, "output", "o", "", "segment output directory (overrides config)")
	rootCmd.AddCommand(synthesizeCmd)
}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <script.json>",
	Short: "Render each dialogue line to its own audio file",
	Long: `Synthesize reads a dialogue script and renders every line through the
configured TTS provider, one file per line, named {index:03d}_{speaker}.{format}.

Lines with a missing speaker or text, unknown speakers, and provider failures
are skipped; everything that could be produced is listed on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}

		provider, err := newProvider(cmd.Context(), cfg.Provider)
		if err != nil {
			return err
		}

		outDir := cfg.Output.SegmentsDir
		if synthOutputDir != "" {
			outDir = synthOutputDir
		}

		synthesizer := synth.New(provider, cfg.Registry(), cfg.Audio, outDir)
		files, err := synthesizer.SynthesizeAll(cmd.Context(), s.Dialogue)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Warn("no segments produced", "lines", len(s.Dialogue))
			return nil
		}

		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}
