package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "List and manage scheduled meetings",
	RunE:  runMeetingsList,
}

var scheduleMeetingFlags struct {
	friend string
	date   string
}

var scheduleMeetingCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Propose a future meeting with a friend",
	RunE:  runScheduleMeeting,
}

var acceptMeetingCmd = &cobra.Command{
	Use:   "accept <meeting-id>",
	Short: "Accept a proposed meeting, marking the friend as met",
	Args:  cobra.ExactArgs(1),
	RunE:  runAcceptMeeting,
}

func init() {
	scheduleMeetingCmd.Flags().StringVar(&scheduleMeetingFlags.friend, "friend", "", "friend name (required)")
	scheduleMeetingCmd.Flags().StringVar(&scheduleMeetingFlags.date, "date", "", "meeting date as YYYY-MM-DD; defaults to today")

	meetingsCmd.AddCommand(scheduleMeetingCmd)
	meetingsCmd.AddCommand(acceptMeetingCmd)
}

func runMeetingsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	meetings := a.store.Meetings()
	if len(meetings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no scheduled meetings")
		return nil
	}

	byID := make(map[string]string)
	for _, friend := range a.store.Friends() {
		byID[friend.ID] = friend.Name
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFRIEND\tDATE\tSTATUS")
	for _, meeting := range meetings {
		name := byID[meeting.FriendID]
		if name == "" {
			name = meeting.FriendID
		}
		state := "pending"
		if meeting.Accepted {
			state = "accepted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meeting.ID, name, meeting.Date.Format(dateLayout), state)
	}
	return w.Flush()
}

func runScheduleMeeting(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	friend, ok := a.store.FriendByName(scheduleMeetingFlags.friend)
	if !ok {
		return fmt.Errorf("no friend named %q", scheduleMeetingFlags.friend)
	}
	date, err := parseDate(scheduleMeetingFlags.date)
	if err != nil {
		return err
	}
	meeting, err := a.store.ScheduleMeeting(ctx, friend.ID, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scheduled meeting %s with %s on %s\n",
		meeting.ID, friend.Name, meeting.Date.Format(dateLayout))
	return nil
}

func runAcceptMeeting(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.store.AcceptMeeting(ctx, args[0])
	fmt.Fprintln(cmd.OutOrStdout(), "accepted")
	return nil
}
