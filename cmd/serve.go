package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/blacktop/podcast-forge/internal/script"
	"github.com/blacktop/podcast-forge/internal/synth"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// SynthesizeDialogueArgs is the input for the synthesize_dialogue tool.
type SynthesizeDialogueArgs struct {
	Dialogue []script.Line `json:"dialogue"`
}

// SynthesizeDialogueResult lists the per-line files that were produced.
type SynthesizeDialogueResult struct {
	AudioFiles []string `json:"audio_files"`
}

// MixPodcastArgs is the input for the mix_podcast tool.
type MixPodcastArgs struct {
	AudioFiles  []string `json:"audio_files"`
	CrossfadeMs int      `json:"crossfade_ms,omitempty"`
}

// MixPodcastResult carries the final track path, or "" when mixing failed.
type MixPodcastResult struct {
	OutputFile string `json:"output_file"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the pipeline as MCP tools over stdio",
	Long: `Serve runs an MCP (Model Context Protocol) server on stdio so an agent
pipeline can drive podcast production: synthesize_dialogue renders a dialogue
script to per-line audio files, mix_podcast merges them into the final track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(&mcp.Implementation{
			Name:    "podcast-forge",
			Version: "1.0.0",
		}, nil)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "synthesize_dialogue",
			Description: "Synthesizes podcast voices for each dialogue line using the configured TTS provider.",
			InputSchema: buildSynthesizeDialogueSchema(),
		}, handleSynthesizeDialogue)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "mix_podcast",
			Description: "Mixes audio segments with silence and crossfades into the final podcast track.",
			InputSchema: buildMixPodcastSchema(),
		}, handleMixPodcast)

		log.Info("starting MCP server", "transport", "stdio", "provider", cfg.Provider)
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func handleSynthesizeDialogue(ctx context.Context, req *mcp.CallToolRequest, args SynthesizeDialogueArgs) (*mcp.CallToolResult, SynthesizeDialogueResult, error) {
	provider, err := newProvider(ctx, cfg.Provider)
	if err != nil {
		return nil, SynthesizeDialogueResult{}, err
	}

	synthesizer := synth.New(provider, cfg.Registry(), cfg.Audio, cfg.Output.SegmentsDir)
	files, err := synthesizer.SynthesizeAll(ctx, args.Dialogue)
	if err != nil {
		return nil, SynthesizeDialogueResult{}, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Synthesized %d of %d dialogue lines", len(files), len(args.Dialogue))},
		},
	}, SynthesizeDialogueResult{AudioFiles: files}, nil
}

func handleMixPodcast(ctx context.Context, req *mcp.CallToolRequest, args MixPodcastArgs) (*mcp.CallToolResult, MixPodcastResult, error) {
	ms := args.CrossfadeMs
	if ms <= 0 {
		ms = cfg.Mix.CrossfadeMs
	}

	// The mixer's contract is empty-result-on-failure, and that is what the
	// agent gets too: no output_file means no usable mix.
	out := newMixer().Mix(ctx, args.AudioFiles, time.Duration(ms)*time.Millisecond)

	text := "Mixing produced no output"
	if out != "" {
		text = fmt.Sprintf("Successfully mixed podcast to: %s", out)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, MixPodcastResult{OutputFile: out}, nil
}
