package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/social-battery/internal/battery"
	"github.com/example/social-battery/internal/social"
)

var addFriendFlags struct {
	name  string
	color string
	times int
	per   string
}

var addFriendCmd = &cobra.Command{
	Use:   "add-friend",
	Short: "Register a new friend",
	RunE:  runAddFriend,
}

func init() {
	addFriendCmd.Flags().StringVar(&addFriendFlags.name, "name", "", "friend name (required)")
	addFriendCmd.Flags().StringVar(&addFriendFlags.color, "color", "", "display color as a hex string, e.g. #2563eb")
	addFriendCmd.Flags().IntVar(&addFriendFlags.times, "times", 0, "per-friend meeting frequency override; 0 uses the global setting")
	addFriendCmd.Flags().StringVar(&addFriendFlags.per, "per", "week", "frequency unit for --times: week or month")
}

func runAddFriend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var maxFrequency *battery.FrequencyLimit
	if addFriendFlags.times > 0 {
		limit, err := parseFrequency(addFriendFlags.times, addFriendFlags.per)
		if err != nil {
			return err
		}
		maxFrequency = &limit
	}

	friend, err := a.store.AddFriend(ctx, social.AddFriendParams{
		Name:         addFriendFlags.name,
		Color:        addFriendFlags.color,
		MaxFrequency: maxFrequency,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", friend.Name, friend.ID)
	return nil
}
