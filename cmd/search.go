package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/progress"
	"github.com/ziadkadry99/ragui/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the solution catalog",
	Long:  `Runs a semantic search against the backend's solution catalog and prints the ranked matches.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("top-k", 3, "number of results to return")
	searchCmd.Flags().Bool("synthesis", false, "ask the agents for a synthesis (System3)")
	searchCmd.Flags().Bool("json", false, "output the backend response as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	topK, _ := cmd.Flags().GetInt("top-k")
	synthesis, _ := cmd.Flags().GetBool("synthesis")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if topK <= 0 {
		topK = 3
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	rag := b.scoped(ctx)

	var res *apiclient.SearchResult
	err = progress.Track(progress.NewReporter(), "Searching", func() error {
		var err error
		res, err = rag.Search(ctx, apiclient.SearchRequest{
			Query:            args[0],
			TopK:             topK,
			IncludeSynthesis: synthesis,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		if res.V3 != nil {
			return printJSON(res.V3)
		}
		return printJSON(res.V2)
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	var (
		view render.SearchView
		syn  *render.SynthesisView
	)
	if res.V3 != nil {
		view, syn = render.SearchFromV3(res.V3)
	} else {
		view = render.SearchFromV2(res.V2)
	}

	out, err := renderer.Search(view)
	if err != nil {
		return err
	}
	extra, err := renderer.Synthesis(syn)
	if err != nil {
		return err
	}
	printHTML(out + extra)
	return nil
}
