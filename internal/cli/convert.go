package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subtext/pkg/subtitle"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a subtitle file from one format to another.

The input format comes from the file extension unless --from is given. The
output format comes from --to, or from the extension of --output.

Examples:
  subtext convert movie.srt --to vtt
  subtext convert captions.dfxp -o captions.srt
  subtext convert old.srt -e windows-1252 -o new.srt
  subtext convert lyrics.lrc --to json -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("to", "t", "", "Output format (e.g., srt, vtt, ttml, csv, json)")
	convertCmd.Flags().
		String("output-encoding", "", "Text encoding of the output file (defaults to the configured encoding)")
	convertCmd.Flags().
		Bool("normalize", false, "Normalize cue text to Unicode NFC")
	convertCmd.Flags().
		Bool("drop-invalid", false, "Drop cues with negative or non-positive durations")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	to, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")
	normalize, _ := cmd.Flags().GetBool("normalize")
	dropInvalid, _ := cmd.Flags().GetBool("drop-invalid")

	if to == "" {
		if outputPath == "" || outputPath == "-" {
			return fmt.Errorf("output format is required: use --to or an --output path with an extension")
		}
		to = strings.TrimPrefix(filepath.Ext(outputPath), ".")
	}
	if _, err := registry.Encoder(to); err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, "", strings.ToLower(to))
	}

	enc, err := outputEncoding(cmd)
	if err != nil {
		return err
	}

	logger.Infow("Starting subtitle conversion",
		"input", inputPath,
		"output", outputPath,
		"to", to,
		"output_encoding", subtitle.EncodingName(enc),
	)

	subs, from, err := readSubtitles(cmd, inputPath)
	if err != nil {
		return err
	}

	if dropInvalid {
		before := subs.Len()
		subs = subs.RemovingInvalidCues()
		if dropped := before - subs.Len(); dropped > 0 {
			logger.Warnw("Dropped invalid cues", "count", dropped)
		}
	}
	if normalize {
		subs = normalizeText(subs)
	}

	if err := writeSubtitles(cmd, subs, outputPath, to, enc); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles converted successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", subs.Len())
	fmt.Fprintf(out, "  Format: %s -> %s\n", strings.ToLower(from), strings.ToLower(to))

	return nil
}

// normalizeText rewrites cue text and speakers in Unicode NFC
func normalizeText(subs subtitle.Subtitles) subtitle.Subtitles {
	cues := subs.Cues()
	for i := range cues {
		cues[i].Text = norm.NFC.String(cues[i].Text)
		cues[i].Speaker = norm.NFC.String(cues[i].Speaker)
	}
	return subtitle.New(cues...)
}
