package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newKeyCmd creates the command for sending remote-control key presses
func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <box-id> <key-code>",
		Short: "Send a remote-control key press to a box",
		Long: `Send an emulated remote-control key press to a box. Key codes use
the W3C names understood by the boxes, for example MediaPlayPause,
ChannelUp, ChannelDown and Power.`,
		Example: `  # Toggle play/pause
  stbridgectl key 3C36E4-EOSSTB-003656579806 MediaPlayPause

  # Next channel
  stbridgectl key 3C36E4-EOSSTB-003656579806 ChannelUp`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			if err := c.SendKey(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("error sending key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Key %q sent to box %s\n", args[1], args[0])
			return nil
		},
	}
}

// newChannelCmd creates the command for switching channels
func newChannelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <box-id> <channel-id>",
		Short: "Tune a box to a linear channel",
		Example: `  # Tune to a channel by service id
  stbridgectl channel 3C36E4-EOSSTB-003656579806 NL_000001`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			if err := c.SetChannel(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("error setting channel: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Box %s tuned to channel %s\n", args[0], args[1])
			return nil
		},
	}
}

// newPowerCmd creates the command for clearing a box's playing state
func newPowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "power <box-id>",
		Short: "Mark a box as powered off",
		Long: `Clear the daemon's playing state for a box. This only updates the
bridge's local model; to actually power the hardware off, send the
Power key instead:

  stbridgectl key <box-id> Power`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			if err := c.PowerOff(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("error powering off: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Box %s marked as powered off\n", args[0])
			return nil
		},
	}
}
