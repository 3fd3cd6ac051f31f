package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [subtitle_file]",
	Short: "Check that a subtitle file parses and every cue has valid timing",
	Long: `Validate a subtitle file. The command fails when the file cannot be
parsed or when any cue starts below zero or ends before it starts.

Zero-length cues fail validation as well, unless --allow-zero-length is
set. Lyrics formats such as LRC only carry start times, so every cue they
produce is zero-length.

Examples:
  subtext validate movie.srt
  subtext validate song.lrc --allow-zero-length`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		Bool("allow-zero-length", false, "Report zero-length cues without failing")
}

func runValidate(cmd *cobra.Command, args []string) error {
	allowZero, _ := cmd.Flags().GetBool("allow-zero-length")

	subs, _, err := readSubtitles(cmd, args[0])
	if err != nil {
		return err
	}

	zero := make(map[int]bool)
	for _, i := range subs.ZeroLengthCueIndexes() {
		zero[i] = true
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, i := range subs.IndexesOfInvalidCues() {
		c := subs.Cue(i)
		if zero[i] && !c.StartTime.IsNegative() {
			fmt.Fprintf(out, "cue %d: zero length at %s\n", i+1, c.StartTime)
			if allowZero {
				continue
			}
		} else {
			fmt.Fprintf(out, "cue %d: invalid timing %s -> %s\n", i+1, c.StartTime, c.EndTime)
		}
		failed++
	}

	if failed > 0 {
		logger.Debugw("Validation failed", "invalid", failed, "cues", subs.Len())
		return fmt.Errorf("%s: %d of %d cues have invalid timing", args[0], failed, subs.Len())
	}

	fmt.Fprintf(out, "%s: %d cues OK\n", args[0], subs.Len())
	return nil
}
