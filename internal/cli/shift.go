package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var shiftCmd = &cobra.Command{
	Use:   "shift [subtitle_file]",
	Short: "Move subtitle timings forward or backward",
	Long: `Shift the timing of a subtitle file by a number of seconds.

Without --at every cue moves by the same amount. With --at, a span of
time is inserted (positive --by) or removed (negative --by) at that point:
cues before it stay put, cues after it move, and cues crossing it stretch
or shrink.

Examples:
  subtext shift movie.srt --by 2.5
  subtext shift movie.srt --by -1.2 -o synced.srt
  subtext shift movie.srt --by 10 --at 600
  subtext shift movie.srt --by -30 --at 120 --drop-invalid`,
	Args: cobra.ExactArgs(1),
	RunE: runShift,
}

func init() {
	rootCmd.AddCommand(shiftCmd)

	shiftCmd.Flags().
		Float64("by", 0, "Seconds to shift by; negative values move cues earlier")
	shiftCmd.Flags().
		Float64("at", 0, "Insert or remove time at this point (seconds) instead of shifting everything")
	shiftCmd.Flags().
		Bool("drop-invalid", false, "Drop cues left with negative or non-positive durations")
	shiftCmd.MarkFlagRequired("by")
}

func runShift(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	by, _ := cmd.Flags().GetFloat64("by")
	at, _ := cmd.Flags().GetFloat64("at")
	dropInvalid, _ := cmd.Flags().GetBool("drop-invalid")
	outputPath, _ := cmd.Flags().GetString("output")

	subs, format, err := readSubtitles(cmd, inputPath)
	if err != nil {
		return err
	}
	if _, err := registry.Encoder(format); err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, ".shifted", strings.ToLower(format))
	}

	if cmd.Flags().Changed("at") {
		logger.Infow("Time shifting subtitles", "by", by, "at", at)
		subs = subs.TimeShifting(by, at)
	} else {
		logger.Infow("Shifting subtitles", "by", by)
		subs = subs.Shifted(by)
	}

	if invalid := subs.IndexesOfInvalidCues(); len(invalid) > 0 {
		if dropInvalid {
			subs = subs.RemovingInvalidCues()
			logger.Warnw("Dropped invalid cues", "count", len(invalid))
		} else {
			logger.Warnw("Shift left cues with invalid timing", "count", len(invalid))
		}
	}

	enc, err := cfg.TextEncoding()
	if err != nil {
		return err
	}
	if err := writeSubtitles(cmd, subs, outputPath, format, enc); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles shifted successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", subs.Len())
	fmt.Fprintf(out, "  Shift: %+gs\n", by)

	return nil
}
