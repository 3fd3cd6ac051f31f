package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mgpai22/subtext/pkg/subtitle"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [subtitle_file]",
	Short: "Print a summary and the cues of a subtitle file",
	Long: `Inspect a subtitle file: cue count, time span, speakers, and cues with
invalid or zero-length timing, followed by a table of every cue.

Examples:
  subtext inspect movie.srt
  subtext inspect interview.vtt --summary
  subtext inspect captions.txt --from sbv`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().
		Bool("summary", false, "Print only the summary, without the cue table")
}

func runInspect(cmd *cobra.Command, args []string) error {
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	subs, format, err := readSubtitles(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, args[0], format, subs)
	if summaryOnly || subs.IsEmpty() {
		return nil
	}

	fmt.Fprintln(out)
	return printCueTable(out, subs)
}

func printSummary(w io.Writer, path, format string, subs subtitle.Subtitles) {
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Format: %s\n", strings.ToLower(format))
	fmt.Fprintf(w, "Cues: %d\n", subs.Len())

	if start, end, ok := span(subs); ok {
		fmt.Fprintf(w, "Span: %s - %s\n", start, end)
	}
	if speakers := subs.UniqueSpeakers(); len(speakers) > 0 {
		fmt.Fprintf(w, "Speakers: %s\n", strings.Join(speakers, ", "))
	}
	fmt.Fprintf(w, "Invalid cues: %d\n", len(subs.IndexesOfInvalidCues()))
	fmt.Fprintf(w, "Zero-length cues: %d\n", len(subs.ZeroLengthCueIndexes()))
}

// earliest start and latest end over all cues
func span(subs subtitle.Subtitles) (subtitle.Time, subtitle.Time, bool) {
	if subs.IsEmpty() {
		return subtitle.Time{}, subtitle.Time{}, false
	}
	start, end := subs.Cue(0).StartTime, subs.Cue(0).EndTime
	for _, c := range subs.Cues() {
		if c.StartTime.Before(start) {
			start = c.StartTime
		}
		if c.EndTime.After(end) {
			end = c.EndTime
		}
	}
	return start, end, true
}

func printCueTable(w io.Writer, subs subtitle.Subtitles) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tSPEAKER\tTEXT")
	for i, c := range subs.Cues() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			c.StartTime,
			c.EndTime,
			c.Speaker,
			oneLine(c.Text),
		)
	}
	return tw.Flush()
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " / ")
}
