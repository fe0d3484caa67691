package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List and manage connection requests",
	RunE:  runRequestsList,
}

var sendRequestFlags struct {
	to          string
	preferences string
}

var sendRequestCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a connection request to another user",
	RunE:  runSendRequest,
}

var acceptRequestCmd = &cobra.Command{
	Use:   "accept <request-id>",
	Short: "Accept an incoming connection request",
	Args:  cobra.ExactArgs(1),
	RunE:  runAcceptRequest,
}

var cancelRequestCmd = &cobra.Command{
	Use:   "cancel <request-id>",
	Short: "Cancel a sent connection request",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelRequest,
}

func init() {
	sendRequestCmd.Flags().StringVar(&sendRequestFlags.to, "to", "", "receiver email (required)")
	sendRequestCmd.Flags().StringVar(&sendRequestFlags.preferences, "preferences", "", "free-form meeting preferences shared with the receiver")

	requestsCmd.AddCommand(sendRequestCmd)
	requestsCmd.AddCommand(acceptRequestCmd)
	requestsCmd.AddCommand(cancelRequestCmd)
}

func runRequestsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	incoming := a.store.IncomingRequests()
	sent := a.store.SentRequests()
	if len(incoming) == 0 && len(sent) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no connection requests")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOX\tID\tFROM\tTO\tSENT\tSTATUS")
	for _, req := range incoming {
		fmt.Fprintf(w, "incoming\t%s\t%s\t%s\t%s\t%s\n",
			req.ID, req.SenderEmail, req.ReceiverEmail, req.SentAt.Format(dateLayout), req.Status)
	}
	for _, req := range sent {
		fmt.Fprintf(w, "sent\t%s\t%s\t%s\t%s\t%s\n",
			req.ID, req.SenderEmail, req.ReceiverEmail, req.SentAt.Format(dateLayout), req.Status)
	}
	return w.Flush()
}

func runSendRequest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := a.store.SendConnectionRequest(ctx, a.cfg.Identity.Email, sendRequestFlags.to, sendRequestFlags.preferences)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sent request %s to %s\n", req.ID, req.ReceiverEmail)
	return nil
}

func runAcceptRequest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.store.AcceptConnectionRequest(ctx, args[0])
	fmt.Fprintln(cmd.OutOrStdout(), "accepted")
	return nil
}

func runCancelRequest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.store.CancelSentRequest(ctx, args[0])
	fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
	return nil
}
