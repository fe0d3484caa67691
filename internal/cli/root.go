// Package cli wires the cobra command tree for the socialbattery binary.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "socialbattery",
	Short: "Track social energy toward friends and plan when to meet next",
	Long: `socialbattery keeps a per-friend "battery" that drains as time passes
since you last met, based on a configurable meeting-frequency policy and
day-of-week availability. It recommends the next meeting date, records
meetings, and exchanges connection requests with other users through an
optional backend.`,
	SilenceUsage: true,
}

// Execute runs the command tree. It is called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addFriendCmd)
	rootCmd.AddCommand(meetCmd)
	rootCmd.AddCommand(meetingsCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(settingsCmd)
}
