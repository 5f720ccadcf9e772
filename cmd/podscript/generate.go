package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/podscript/internal/audio"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	input       string
	speakers    int
	voices      []string
	model       string
	temperature float64
	speechModel string
	audio       string
	asJSON      bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a podcast script from a document",
		Example: `  podscript generate --input article.md
  podscript generate -i notes.txt --voices kore,puck,charon --json
  cat post.md | podscript generate --audio episode.wav
  podscript generate -i post.md --model gemini-2.5-flash --temperature 0.3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "-", "Source document, or - for stdin")
	flags.IntVarP(&opts.speakers, "speakers", "n", 0, "Number of speakers (default: number of voices, or 2)")
	flags.StringSliceVar(&opts.voices, "voices", nil, "Comma-separated voice ids, see 'podscript voices'")
	flags.StringVar(&opts.model, "model", "", "Script model for this run (default: llm.model_name)")
	flags.Float64Var(&opts.temperature, "temperature", 0, "Sampling temperature between 0 and 1 (default: llm.temperature)")
	flags.StringVar(&opts.speechModel, "speech-model", "", "Text-to-speech model for --audio (default: speech.model_name)")
	flags.StringVar(&opts.audio, "audio", "", "Also render the script to this WAV file")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the script as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	ctx := cmd.Context()

	content, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return WrapError(ExitUsage, "failed to read input", err)
	}

	req := podcast.ScriptRequest{
		Content:     content,
		NumSpeakers: opts.speakers,
		VoiceIDs:    opts.voices,
		Model:       strings.TrimSpace(opts.model),
		SpeechModel: strings.TrimSpace(opts.speechModel),
	}
	if cmd.Flags().Changed("temperature") {
		if opts.temperature < 0 || opts.temperature > 1 {
			return WrapError(ExitUsage, "invalid --temperature",
				fmt.Errorf("%v is outside [0, 1]", opts.temperature))
		}
		req.Temperature = &opts.temperature
	}
	// Reject a bad cast before building clients.
	if _, err := podcast.Instruction(req.Cast()); err != nil {
		return err
	}

	app, err := newApplication(ctx, root.cfg, root.logger)
	if err != nil {
		return err
	}

	script, err := app.scripts.GenerateScript(ctx, req)
	if err != nil {
		return err
	}

	if opts.audio != "" {
		if err := writeAudio(cmd, app.renderer(req.SpeechModel), script, opts.audio); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(script)
	}
	printScript(cmd.OutOrStdout(), script)
	return nil
}

// readInput reads path, or in when path is "-".
func readInput(in io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", podcast.ErrEmptyContent
	}
	return content, nil
}

func writeAudio(cmd *cobra.Command, renderer *audio.Renderer, script *podcast.Script, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close audio file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := renderer.Render(cmd.Context(), script, f); err != nil {
		return fmt.Errorf("failed to render audio: %w", err)
	}

	cmd.PrintErrf("Wrote %s\n", path)
	return nil
}

func printScript(w io.Writer, script *podcast.Script) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", script.Title, script.Description)
	for _, sp := range script.Speakers {
		fmt.Fprintf(&b, "  %s (%s)\n", sp.Name, sp.VoiceID)
	}
	b.WriteString("\n")
	for _, turn := range script.Dialogue {
		fmt.Fprintf(&b, "%s: %s\n", turn.Speaker, turn.Text)
	}
	_, _ = io.WriteString(w, b.String())
}
