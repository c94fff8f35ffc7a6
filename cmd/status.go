package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/progress"
	"github.com/ziadkadry99/ragui/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend health",
	Long:  `Queries the backend's health (System2) or status and health (System3) endpoints and prints the result.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	var st *apiclient.Status
	err = progress.Track(progress.NewReporter(), "Checking status", func() error {
		var err error
		st, err = b.rag.Status(ctx)
		return err
	})

	var view render.StatusView
	if err != nil {
		view = render.UnhealthyStatus(b.rag.Base(), b.environment(), err)
	} else {
		view = render.StatusFrom(st, b.rag.Base(), b.environment(), b.cfg.Variant.HasSessions())
	}

	out, rerr := renderer.Status(view)
	if rerr != nil {
		return rerr
	}
	printHTML(out)
	// An unreachable backend still prints its report, then fails the command.
	return err
}
