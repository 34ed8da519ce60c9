package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"notefiber-sync/pkg/events"
	pktNats "notefiber-sync/pkg/nats"

	"github.com/spf13/cobra"
)

var (
	activityAll  bool
	activityType string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Follow account and note events published to NATS",
	Long: `activity tails the event stream written when NATS_ENABLED is set. It prints
only new events unless --all is given, and runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		subject := pktNats.SubjectPrefix + ".>"
		if activityType != "" {
			subject = pktNats.Subject(activityType)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return sub.Tail(ctx, subject, activityAll, func(_ context.Context, e events.Event) error {
			printEvent(os.Stdout, e)
			return nil
		})
	},
}

func printEvent(w io.Writer, e events.Event) {
	keys := make([]string, 0, len(e.Payload()))
	for k := range e.Payload() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", k, e.Payload()[k]))
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		dimColor.Sprint(e.Timestamp().Local().Format("2006-01-02 15:04:05")),
		tagColor.Sprintf("%-16s", e.EventType()),
		strings.Join(fields, " "),
	)
}

func init() {
	activityCmd.Flags().BoolVar(&activityAll, "all", false, "Replay retained events before following")
	activityCmd.Flags().StringVar(&activityType, "type", "", "Only events of this type, e.g. NOTE_CREATED")
	rootCmd.AddCommand(activityCmd)
}
