package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the battery level and next recommended meeting for each friend",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	friends := a.store.Friends()
	if len(friends) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no friends yet; add one with `socialbattery add-friend`")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBATTERY\tLAST MET\tNEXT RECOMMENDED")
	for _, friend := range friends {
		status, ok := a.store.Status(ctx, friend.ID)
		if !ok {
			continue
		}
		lastMet := "never"
		if friend.LastMet != nil {
			lastMet = friend.LastMet.Format(dateLayout)
		}
		fmt.Fprintf(w, "%s\t%d%%\t%s\t%s\n",
			friend.Name, status.Percent, lastMet, status.NextRecommended.Format(dateLayout))
	}
	return w.Flush()
}
