// remindctl is the command-line client for the reminder service: create,
// inspect and edit scheduled call reminders, and watch their countdowns live.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/callminder/callminder/internal/client"
	"github.com/callminder/callminder/internal/config"
	"github.com/callminder/callminder/internal/observability/logging"
	"github.com/callminder/callminder/internal/querycache"
	"github.com/callminder/callminder/internal/service/reminders"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wired client stack shared by every subcommand.
type app struct {
	cfg     *config.Config
	service *reminders.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var serverURL string

	root := &cobra.Command{
		Use:           "remindctl",
		Short:         "Manage scheduled call reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ReminderServiceURL = serverURL
			}
			logging.Setup(cfg.LogLevel)

			a.cfg = cfg
			gateway := client.NewClient(cfg.ReminderServiceURL)
			a.service = reminders.NewService(gateway, querycache.New())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "reminder service base URL (default "+config.DefaultServiceURL+")")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newWatchCmd(a),
	)
	return root
}
