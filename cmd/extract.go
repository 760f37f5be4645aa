package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/JPM1118/framegrab/internal/logging"
	"github.com/JPM1118/framegrab/internal/session"
	"github.com/JPM1118/framegrab/internal/video"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var extractOpts struct {
	start   int
	end     int
	centerX int
	centerY int
	width   int
	height  int
}

var extractCmd = &cobra.Command{
	Use:   "extract <video> <output-dir>",
	Short: "Extract a frame range once (non-interactive)",
	Long: `Extract frames --start through --end (inclusive, 0-based) of a video into
an output folder as "Frame 1.png", "Frame 2.png", ...

Without any crop flags every frame is written at full size. Otherwise a
missing --center-x/--center-y defaults to the frame center and a missing
--width/--height to the full frame dimension.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log, cleanup, err := logging.New(app.cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		videoPath := session.FixPath(args[0])
		outDir := session.FixPath(args[1])
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output folder: %w", err)
		}

		info, err := video.Probe(ctx, app.opener, videoPath)
		if err != nil {
			return fmt.Errorf("could not open video file %s: %w", videoPath, err)
		}

		req := extract.Request{
			Source:    videoPath,
			OutputDir: outDir,
			Start:     extractOpts.start,
			End:       extractOpts.end,
			Crop:      cropFlags(cmd.Flags()).Resolve(info),
		}

		out := cmd.OutOrStdout()
		ext := extract.New(app.opener,
			extract.WithLogger(log),
			extract.WithCompression(app.cfg.Compression()),
		)
		res := ext.Run(ctx, req, func(ev extract.Event) {
			fmt.Fprintln(out, ev.String())
		})
		fmt.Fprintln(out, res.Summary())

		if res.Status != extract.StatusCompleted {
			return fmt.Errorf("extraction ended with status %s", res.Status)
		}
		return nil
	},
}

func init() {
	f := extractCmd.Flags()
	f.IntVarP(&extractOpts.start, "start", "s", 0, "first frame number (0-based)")
	f.IntVarP(&extractOpts.end, "end", "e", 0, "last frame number (inclusive)")
	f.IntVarP(&extractOpts.centerX, "center-x", "x", 0, "crop center X (default: frame center)")
	f.IntVarP(&extractOpts.centerY, "center-y", "y", 0, "crop center Y (default: frame center)")
	f.IntVarP(&extractOpts.width, "width", "W", 0, "crop width (default: frame width)")
	f.IntVarP(&extractOpts.height, "height", "H", 0, "crop height (default: frame height)")
	_ = extractCmd.MarkFlagRequired("start")
	_ = extractCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(extractCmd)
}

// cropFlags maps the crop flags onto CropInput. A flag that was not given
// is an absent field, the same as pressing Enter at the prompt.
func cropFlags(flags *pflag.FlagSet) session.CropInput {
	opt := func(name string) session.Optional {
		if !flags.Changed(name) {
			return session.Optional{}
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return session.Optional{}
		}
		return session.Some(v)
	}
	return session.CropInput{
		CenterX: opt("center-x"),
		CenterY: opt("center-y"),
		Width:   opt("width"),
		Height:  opt("height"),
	}
}
