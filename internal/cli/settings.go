package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/social-battery/internal/battery"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the global availability and meeting frequency",
	RunE:  runSettingsShow,
}

var setSettingsFlags struct {
	available string
	times     int
	per       string
}

var setSettingsCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the global availability and meeting frequency",
	RunE:  runSettingsSet,
}

func init() {
	setSettingsCmd.Flags().StringVar(&setSettingsFlags.available, "available", "weekends", `availability: "weekends", "weekdays" or a day list like "mon,wed,fri"`)
	setSettingsCmd.Flags().IntVar(&setSettingsFlags.times, "times", 1, "desired meetings per unit")
	setSettingsCmd.Flags().StringVar(&setSettingsFlags.per, "per", "week", "frequency unit for --times: week or month")

	settingsCmd.AddCommand(setSettingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	settings := a.store.Settings()
	days := make([]string, 0, len(settings.Availability.Weekdays))
	for _, day := range settings.Availability.Weekdays {
		days = append(days, day.String())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "available: %s\n", strings.Join(days, ", "))
	unit := "week"
	if settings.Frequency.Unit == battery.PerMonth {
		unit = "month"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "frequency: %d per %s\n", settings.Frequency.Count, unit)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	availability, err := parseAvailability(setSettingsFlags.available)
	if err != nil {
		return err
	}
	frequency, err := parseFrequency(setSettingsFlags.times, setSettingsFlags.per)
	if err != nil {
		return err
	}
	a.store.UpdateSettings(ctx, availability, frequency)
	fmt.Fprintln(cmd.OutOrStdout(), "settings updated")
	return nil
}
