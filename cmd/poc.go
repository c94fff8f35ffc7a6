package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/progress"
	"github.com/ziadkadry99/ragui/internal/render"
)

var pocCmd = &cobra.Command{
	Use:   "poc [query]",
	Short: "Generate a proof-of-concept plan",
	Long: `Asks the backend to generate a POC for the given requirements. System3
backends return structured details; System2 backends return the raw document.`,
	Args: cobra.ExactArgs(1),
	RunE: runPOC,
}

func init() {
	pocCmd.Flags().String("area", "", "solution area")
	pocCmd.Flags().String("title", "", "POC title")
	pocCmd.Flags().Int("top-results", 5, "number of catalog matches to build on")
	pocCmd.Flags().Bool("download", false, "also save the POC as poc-<timestamp>.txt or .json")
	pocCmd.Flags().Bool("json", false, "output the backend response as JSON")
	pocCmd.MarkFlagRequired("area")
	pocCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(pocCmd)
}

func runPOC(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	area, _ := cmd.Flags().GetString("area")
	title, _ := cmd.Flags().GetString("title")
	topResults, _ := cmd.Flags().GetInt("top-results")
	download, _ := cmd.Flags().GetBool("download")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if topResults <= 0 {
		topResults = 5
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	rag := b.scoped(ctx)

	var res *apiclient.POCResult
	err = progress.Track(progress.NewReporter(), "Generating POC", func() error {
		var err error
		res, err = rag.GeneratePOC(ctx, apiclient.POCRequest{
			SolutionArea: area,
			POCTitle:     title,
			Query:        args[0],
			TopResults:   topResults,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("POC generation failed: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	// V3 details download as text; anything else downloads as JSON.
	var content, format string
	if res.V3 != nil {
		out, err := renderer.POCDetails(render.POCDetailsFromV3(res.V3.Details))
		if err != nil {
			return err
		}
		content, format = render.PlainText(out), "txt"
	} else {
		content, format = render.PrettyJSON(res.Raw), "json"
	}

	if jsonOutput {
		fmt.Println(render.PrettyJSON(res.Raw))
	} else {
		fmt.Printf("POC %s\n\n%s\n", res.ID(), content)
	}

	if download {
		name := fmt.Sprintf("poc-%d.%s", time.Now().UnixMilli(), format)
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", name)
	}
	return nil
}
