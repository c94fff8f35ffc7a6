package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/activity"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent backend API calls",
	Long:  `Lists the backend calls recorded by the server, CLI and MCP server, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().Int("limit", 20, "maximum number of entries")
	activityCmd.Flags().Bool("failed", false, "only show failed calls")
	activityCmd.Flags().String("endpoint", "", "filter by endpoint substring")
	activityCmd.Flags().Duration("since", 0, "only show calls newer than this (e.g. 1h)")
	activityCmd.Flags().Bool("json", false, "output entries as JSON")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	failed, _ := cmd.Flags().GetBool("failed")
	endpointFilter, _ := cmd.Flags().GetString("endpoint")
	since, _ := cmd.Flags().GetDuration("since")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openState(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	filter := activity.QueryFilter{
		Endpoint:   endpointFilter,
		FailedOnly: failed,
		Limit:      limit,
	}
	if since > 0 {
		t := time.Now().Add(-since)
		filter.Since = &t
	}

	entries, err := activity.NewStore(database).Query(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("querying activity: %w", err)
	}

	if jsonOutput {
		if entries == nil {
			entries = []activity.Entry{}
		}
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMETHOD\tSTATUS\tDURATION\tENDPOINT\tERROR")
	for _, e := range entries {
		status := "-"
		if e.Status > 0 {
			status = fmt.Sprintf("%d", e.Status)
		}
		errText := e.Error
		if len(errText) > 60 {
			errText = errText[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Method, status, e.DurationMS, e.Endpoint, errText)
	}
	return w.Flush()
}
