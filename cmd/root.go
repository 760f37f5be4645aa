package cmd

import (
	"fmt"
	"os"

	"github.com/JPM1118/framegrab/internal/config"
	"github.com/JPM1118/framegrab/internal/video"
	"github.com/spf13/cobra"
)

var (
	configFile string
	backend    string
	logLevel   string
	plain      bool
)

// app is the state shared by all subcommands, set up before any of them runs.
var app struct {
	cfg    config.Config
	opener video.Opener
}

var rootCmd = &cobra.Command{
	Use:   "framegrab",
	Short: "Extract and crop video frames to PNG files",
	Long: `framegrab extracts a range of frames from a video, optionally crops each
one to a rectangle around a center point, and writes them as
"Frame 1.png", "Frame 2.png", ... into an output folder.

Run without arguments for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "video backend: ffmpeg or opencv (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "use a line-oriented console instead of the full-screen UI")
}

// setup loads the config, applies flag overrides and prepares the video
// backend.
func setup(cmd *cobra.Command) error {
	var (
		cfg config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("backend") {
		cfg.Video.Backend = backend
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opener, err := video.Lookup(cfg.Video.Backend, video.Options{
		ProbeTimeout: cfg.Video.ProbeTimeout.Duration,
	})
	if err != nil {
		return err
	}
	if c, ok := opener.(video.Checker); ok {
		if err := c.Check(); err != nil {
			return err
		}
	}

	app.cfg = cfg
	app.opener = opener
	return nil
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
