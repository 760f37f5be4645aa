package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/JPM1118/framegrab/internal/session"
	"github.com/JPM1118/framegrab/internal/video"
	"github.com/spf13/cobra"
)

var probeWorkers int

var probeCmd = &cobra.Command{
	Use:   "probe <video>...",
	Short: "Print frame size, center, frame count and frame rate",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VIDEO\tSIZE\tCENTER\tFRAMES\tFPS\tDURATION")
		fmt.Fprintln(w, "─────\t────\t──────\t──────\t───\t────────")

		paths := make([]string, len(args))
		for i, arg := range args {
			paths[i] = session.FixPath(arg)
		}

		var errs []error
		results := video.ProbeAll(cmd.Context(), app.opener, paths, probeWorkers, app.cfg.Video.ProbeTimeout.Duration)
		for _, r := range results {
			if r.Err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
				fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\n", r.Path)
				continue
			}
			info := r.Info
			c := info.Center()
			fmt.Fprintf(w, "%s\t%dx%d\t(%d, %d)\t%d\t%.2f\t%s\n",
				r.Path, info.Width, info.Height, c.X, c.Y, info.FrameCount, info.FPS, formatDuration(info))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return errors.Join(errs...)
	},
}

func init() {
	probeCmd.Flags().IntVarP(&probeWorkers, "workers", "j", 4, "videos probed in parallel")
	rootCmd.AddCommand(probeCmd)
}

func formatDuration(info video.Info) string {
	if info.FPS <= 0 {
		return "-"
	}
	d := time.Duration(float64(info.FrameCount) / info.FPS * float64(time.Second))
	return d.Round(10 * time.Millisecond).String()
}
