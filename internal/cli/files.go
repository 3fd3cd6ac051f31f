package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subtext/pkg/subtitle"
	"github.com/spf13/cobra"
)

// format identifier for path: --from when given, otherwise the extension
func inputFormat(cmd *cobra.Command, path string) (string, error) {
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		return from, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot tell the format of %s: use --from", path)
	}
	return ext, nil
}

func readSubtitles(cmd *cobra.Command, path string) (subtitle.Subtitles, string, error) {
	format, err := inputFormat(cmd, path)
	if err != nil {
		return subtitle.Subtitles{}, "", err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return subtitle.Subtitles{}, "", fmt.Errorf("subtitle file not found: %s", path)
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return subtitle.Subtitles{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	enc, err := cfg.TextEncoding()
	if err != nil {
		return subtitle.Subtitles{}, "", err
	}

	logger.Debugw("Decoding subtitle file",
		"input", path,
		"format", format,
		"encoding", subtitle.EncodingName(enc),
		"bytes", len(data),
	)
	subs, err := registry.DecodeBytes(data, format, enc)
	if err != nil {
		return subtitle.Subtitles{}, "", fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	logger.Infow("Parsed subtitle file",
		"cues", subs.Len(),
		"format", format,
	)
	return subs, format, nil
}

// writeSubtitles encodes subs as format and writes them to path, or to the
// command's stdout when path is "-".
func writeSubtitles(cmd *cobra.Command, subs subtitle.Subtitles, path, format string, enc subtitle.TextEncoding) error {
	data, err := registry.EncodeBytes(subs, format, enc)
	if err != nil {
		return fmt.Errorf("failed to encode subtitles: %w", err)
	}

	if path == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	logger.Infow("Writing output file",
		"output", path,
		"format", format,
		"bytes", len(data),
	)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// input.srt + ("", "vtt") -> input.vtt, input.srt + (".shifted", "srt") -> input.shifted.srt
func defaultOutputPath(input, suffix, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s%s.%s", base, suffix, format)
}

// outputEncoding resolves the --output-encoding flag, falling back to the
// configured encoding.
func outputEncoding(cmd *cobra.Command) (subtitle.TextEncoding, error) {
	name := cfg.Encoding
	if cmd.Flags().Lookup("output-encoding") != nil {
		if v, _ := cmd.Flags().GetString("output-encoding"); v != "" {
			name = v
		}
	}
	return subtitle.LookupEncoding(name)
}
