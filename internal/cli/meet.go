package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var meetFlags struct {
	friend string
	date   string
}

var meetCmd = &cobra.Command{
	Use:   "meet",
	Short: "Record a meeting with a friend, recharging their battery",
	RunE:  runMeet,
}

func init() {
	meetCmd.Flags().StringVar(&meetFlags.friend, "friend", "", "friend name (required)")
	meetCmd.Flags().StringVar(&meetFlags.date, "date", "", "meeting date as YYYY-MM-DD; defaults to today")
}

func runMeet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	friend, ok := a.store.FriendByName(meetFlags.friend)
	if !ok {
		return fmt.Errorf("no friend named %q", meetFlags.friend)
	}
	date, err := parseDate(meetFlags.date)
	if err != nil {
		return err
	}
	meeting, err := a.store.RecordMeeting(ctx, friend.ID, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recorded meeting with %s on %s\n",
		friend.Name, meeting.Date.Format(dateLayout))
	return nil
}
