package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/settopbox/stbridge/api/types/v1alpha1"
	"github.com/settopbox/stbridge/internal/stbridgectl/util"
)

// newWatchCmd creates the command for following box events in real time
func newWatchCmd() *cobra.Command {
	var (
		output        string
		showTimestamp bool
	)

	cmd := &cobra.Command{
		Use:   "watch [box-id]",
		Short: "Follow box state changes in real-time",
		Long: `Subscribe to the daemon's event stream and print box updates as
they happen. With a box id, only that box's events are shown.

Events cover lifecycle state changes and playing-info updates.`,
		Example: `  # Watch every box in the household
  stbridgectl watch

  # Watch a single box, as JSON lines
  stbridgectl watch 3C36E4-EOSSTB-003656579806 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			var boxID string
			if len(args) == 1 {
				boxID = args[0]
			}

			out := cmd.OutOrStdout()
			return c.WatchEvents(cmd.Context(), func(event v1alpha1.BoxEvent) {
				if boxID != "" && event.BoxID != boxID {
					return
				}

				if output == "json" {
					util.PrintJSON(out, event)
					return
				}

				prefix := ""
				if showTimestamp {
					prefix = event.Timestamp.Local().Format("15:04:05") + " "
				}
				fmt.Fprintf(out, "%s%s %s %s %s\n",
					prefix,
					event.BoxID,
					event.Type,
					event.State,
					formatPlaying(event.PlayingInfo))
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().BoolVarP(&showTimestamp, "timestamp", "t", false, "Show timestamps")

	return cmd
}

// formatPlaying renders a playing-info snapshot as a one-line summary
func formatPlaying(info v1alpha1.PlayingInfo) string {
	if info.SourceType == v1alpha1.SourceKindNone {
		return "-"
	}
	s := string(info.SourceType)
	if info.ChannelTitle != "" && info.ChannelTitle != info.Title {
		s += " " + info.ChannelTitle
	}
	if info.Title != "" {
		s += " " + info.Title
	}
	if info.Paused {
		s += " (paused)"
	}
	return s
}
