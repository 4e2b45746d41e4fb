// Package cmd implements the stbridge CLI commands
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/settopbox/stbridge/internal/stbridgectl/client"
	"github.com/settopbox/stbridge/internal/stbridgectl/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stbridgectl",
	Short: "Set-top box bridge control tool",
	Long: `stbridgectl is a command line tool for inspecting and controlling
set-top boxes tracked by a running stbridged daemon: listing box state,
sending remote-control keys and switching channels.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stbridgectl/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "stbridged API address")

	// Add commands
	rootCmd.AddCommand(newBoxesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newChannelCmd())
	rootCmd.AddCommand(newPowerCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	// Allow command line flags to override config file
	if server, _ := rootCmd.PersistentFlags().GetString("server"); server != "" {
		cfg.Server = server
	}
}

// getClient creates an API client from the loaded configuration
func getClient() (*client.Client, error) {
	if cfg == nil || cfg.Server == "" {
		return nil, fmt.Errorf("no API server configured - set STBRIDGECTL_SERVER or configure in stbridgectl config")
	}
	return client.NewClient(cfg.Server)
}
