package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/settopbox/stbridge/internal/stbridgectl/util"
)

// newBoxesCmd creates the command group for inspecting boxes
func newBoxesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "boxes [id]",
		Short: "List tracked boxes or show one box",
		Long: `List the set-top boxes tracked by the daemon, or show the full
state of a single box when an id is given.

The output can be formatted as a table (default) or as JSON for scripting.`,
		Example: `  # List all boxes
  stbridgectl boxes

  # Show one box as JSON
  stbridgectl boxes 3C36E4-EOSSTB-003656579806 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				box, err := c.GetBox(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("error getting box: %w", err)
				}
				return util.PrintJSON(cmd.OutOrStdout(), box)
			}

			boxes, err := c.ListBoxes(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing boxes: %w", err)
			}

			switch output {
			case "json":
				return util.PrintJSON(cmd.OutOrStdout(), boxes)
			default:
				tw := util.NewTabWriter(cmd.OutOrStdout())
				defer tw.Flush()

				fmt.Fprintf(tw, "ID\tNAME\tSTATE\tSOURCE\tPLAYING\tUPDATED\n")
				for _, b := range boxes {
					updated := "never"
					if !b.UpdatedAt.IsZero() {
						updated = util.FormatDuration(time.Since(b.UpdatedAt))
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						b.ID,
						b.Name,
						b.State,
						b.PlayingInfo.SourceType,
						b.PlayingInfo.Title,
						updated)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	return cmd
}
