package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/callminder/callminder/internal/domain"
	"github.com/callminder/callminder/internal/service/countdown"
	"github.com/callminder/callminder/internal/service/listquery"
	"github.com/callminder/callminder/internal/timecodec"
)

func newListCmd(a *app) *cobra.Command {
	var (
		status string
		query  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders, optionally filtered by status and free text",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := resolveFilter(status, query)
			if err != nil {
				return err
			}

			items, err := a.service.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printReminders(cmd, items, time.Now().UTC())
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "status filter (all, Scheduled, Completed, Failed)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search over title and message")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReminderDetail(cmd, *r)
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		title    string
		message  string
		phone    string
		at       string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new call reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			tz := timecodec.Resolve(timezone)
			instant, err := timecodec.ToAbsoluteInstant(at, tz)
			if err != nil {
				return err
			}
			if err := timecodec.AssertFuture(instant, time.Now()); err != nil {
				return err
			}

			created, err := a.service.Create(cmd.Context(), domain.NewReminder{
				Title:       title,
				Message:     message,
				Phone:       phone,
				ScheduledAt: instant,
				Timezone:    tz,
			})
			if err != nil {
				return err
			}

			cmd.Printf("Created %s\n", created.ID)
			printReminderDetail(cmd, *created)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "short title (2-60 characters)")
	cmd.Flags().StringVar(&message, "message", "", "message spoken during the call")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number, e.g. +14155552671")
	cmd.Flags().StringVar(&at, "at", "", "local wall-clock time, e.g. 2026-09-01T18:30")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default: this machine's zone)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		title    string
		message  string
		phone    string
		at       string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit fields of an existing reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("message") {
				patch.Message = &message
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}

			if cmd.Flags().Changed("at") {
				// The new wall-clock time is interpreted in the reminder's
				// stored timezone unless one is supplied alongside it.
				tz := timezone
				if tz == "" {
					current, err := a.service.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					tz = current.Timezone
				}
				tz = timecodec.Resolve(tz)
				instant, err := timecodec.ToAbsoluteInstant(at, tz)
				if err != nil {
					return err
				}
				patch.ScheduledAt = &instant
				patch.Timezone = &tz
			} else if cmd.Flags().Changed("timezone") {
				tz := timecodec.Resolve(timezone)
				patch.Timezone = &tz
			}

			if patch.Empty() {
				return errors.New("nothing to update, supply at least one flag")
			}

			updated, err := a.service.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printReminderDetail(cmd, *updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&message, "message", "", "new message")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&at, "at", "", "new local wall-clock time, e.g. 2026-09-01T18:30")
	cmd.Flags().StringVar(&timezone, "timezone", "", "new IANA timezone")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		status   string
		query    string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live countdown view, refreshed every tick until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := resolveFilter(status, query)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			items, err := a.service.List(ctx, filter)
			if err != nil {
				return err
			}
			printReminders(cmd, items, time.Now().UTC())

			for now := range countdown.Ticks(ctx, interval) {
				refreshed, err := a.service.RefreshList(ctx, filter)
				if err != nil {
					// Keep showing the last good snapshot on transient failures.
					cmd.PrintErrln("refresh failed:", err)
				} else {
					items = refreshed
				}
				printReminders(cmd, items, now.UTC())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(domain.StatusScheduled), "status filter (all, Scheduled, Completed, Failed)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search over title and message")
	cmd.Flags().DurationVar(&interval, "interval", countdown.DefaultTick, "refresh interval")
	return cmd
}

// resolveFilter runs the flag values through the same controller interactive
// views use, so normalization stays in one place.
func resolveFilter(status, query string) (domain.ListFilter, error) {
	f := domain.StatusFilter(status)
	if !f.Valid() {
		return domain.ListFilter{}, fmt.Errorf("invalid status %q, want all, Scheduled, Completed or Failed", status)
	}

	ctrl := listquery.NewController(0, nil)
	defer ctrl.Stop()
	ctrl.SetStatus(f)
	ctrl.SetQuery(query)
	ctrl.Flush()
	return ctrl.Filter(), nil
}

func printReminders(cmd *cobra.Command, items []domain.Reminder, now time.Time) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPHONE\tSTATUS\tSCHEDULED (UTC)\tCOUNTDOWN")
	for _, r := range items {
		label, _ := countdown.Label(r, now)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Title,
			r.Phone,
			r.Status,
			r.ScheduledAt.UTC().Format(time.RFC3339),
			label,
		)
	}
	_ = w.Flush()
}

func printReminderDetail(cmd *cobra.Command, r domain.Reminder) {
	local, err := timecodec.ToLocalWallClock(r.ScheduledAt, r.Timezone)
	if err != nil {
		local = r.ScheduledAt.UTC().Format(timecodec.WallClockLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID:           %s\n", r.ID)
	fmt.Fprintf(&b, "Title:        %s\n", r.Title)
	fmt.Fprintf(&b, "Message:      %s\n", r.Message)
	fmt.Fprintf(&b, "Phone:        %s\n", r.Phone)
	fmt.Fprintf(&b, "Scheduled:    %s (%s)\n", local, r.Timezone)
	fmt.Fprintf(&b, "UTC instant:  %s\n", r.ScheduledAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Status:       %s\n", r.Status)
	if r.LastError != "" {
		fmt.Fprintf(&b, "Last error:   %s\n", r.LastError)
	}
	if label, ok := countdown.Label(r, time.Now().UTC()); ok {
		fmt.Fprintf(&b, "Countdown:    %s\n", label)
	}
	cmd.Print(b.String())
}
