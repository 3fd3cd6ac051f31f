package cli

import (
	"github.com/mgpai22/subtext/internal/config"
	"github.com/mgpai22/subtext/internal/logging"
	"github.com/mgpai22/subtext/pkg/subtitle"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
	registry   *subtitle.Registry
)

var rootCmd = &cobra.Command{
	Use:   "subtext",
	Short: "Convert, inspect and retime subtitle files",
	Long: `Subtext reads and writes subtitle files in SRT, WebVTT, SBV, SSA/ASS,
TTML/DFXP, LRC, CSV, JSON, Podcast Index JSON and MicroDVD SUB.

Files are converted through one shared cue model, so any readable format
can be written as any writable one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("encoding") {
			c.Encoding, _ = cmd.Flags().GetString("encoding")
			if err := c.Validate(); err != nil {
				return err
			}
		}
		cfg = c
		registry = cfg.Registry(logger)

		logger.Debugw("Loaded configuration",
			"config", configPath,
			"encoding", cfg.Encoding,
			"sub_frame_rate", cfg.SUB.FrameRate,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().
		StringP("encoding", "e", "", "Text encoding of input files (e.g., windows-1252, utf-16le)")
	rootCmd.PersistentFlags().
		String("from", "", "Input format, overriding the file extension (e.g., srt, vtt, dfxp)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
