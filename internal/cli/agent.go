package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/social-battery/internal/worker"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the polling agent that delivers incoming connection requests",
	RunE:  runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	w := worker.New(a.store, a.remote, a.cfg.Identity.Email, a.cfg.Worker.PollInterval, a.logger)
	if a.cfg.Identity.DeviceToken != "" {
		w.SetDeviceToken(a.cfg.Identity.DeviceToken)
	}
	w.Run(ctx)
	return nil
}
