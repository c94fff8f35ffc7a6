package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/progress"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated POCs",
	Long:  `Lists the POCs generated so far. System3 backends scope history to the current session.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Bool("json", false, "output the backend response as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	// History never creates a session; there is nothing to list in a new one.
	rag := b.rag
	if b.sessions != nil {
		id, err := b.sessions.Current(ctx)
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}
		if id == "" {
			return session.ErrNoSession
		}
		rag = rag.WithSession(id)
	}

	var res *apiclient.HistoryResult
	err = progress.Track(progress.NewReporter(), "Loading history", func() error {
		var err error
		res, err = rag.History(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if jsonOutput {
		if res.V3 != nil {
			return printJSON(res.V3)
		}
		return printJSON(res.V2)
	}

	var items []render.HistoryItem
	if res.V3 != nil {
		items = render.HistoryFromV3(res.V3)
	} else {
		items = render.HistoryFromV2(res.V2)
	}
	if len(items) == 0 {
		fmt.Println("No POCs generated yet.")
		return nil
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	out, err := renderer.History(items)
	if err != nil {
		return err
	}
	printHTML(out)
	return nil
}
