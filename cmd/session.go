package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the System3 session",
	Long:  `Create, show, export and clear the server-side session that scopes System3 searches, POCs and history.`,
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new session, replacing the stored one",
	Args:  cobra.NoArgs,
	RunE:  runSessionCreate,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session id",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the current session document",
	Args:  cobra.NoArgs,
	RunE:  runSessionExport,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runSessionClear,
}

func init() {
	sessionExportCmd.Flags().String("out", "", "output file (default: system3-session-<id>-<timestamp>.json)")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

// openSessions opens the backend and fails for variants without sessions.
func openSessions() (*backend, error) {
	b, err := openBackend()
	if err != nil {
		return nil, err
	}
	if b.sessions == nil {
		b.Close()
		return nil, fmt.Errorf("variant %s does not support sessions", b.cfg.Variant)
	}
	return b, nil
}

func runSessionCreate(cmd *cobra.Command, args []string) error {
	b, err := openSessions()
	if err != nil {
		return err
	}
	defer b.Close()

	id, err := b.sessions.Create(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	fmt.Fprintln(os.Stderr, "New session created")
	fmt.Println(id)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	b, err := openSessions()
	if err != nil {
		return err
	}
	defer b.Close()

	id, err := b.sessions.Current(context.Background())
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println(session.Label(id))
		return nil
	}
	fmt.Println(id)
	return nil
}

func runSessionExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	b, err := openSessions()
	if err != nil {
		return err
	}
	defer b.Close()

	exp, err := b.sessions.Export(context.Background())
	if err != nil {
		return err
	}
	if out == "" {
		out = exp.Filename
	}
	if out == "-" {
		_, err = os.Stdout.Write(exp.Data)
		return err
	}
	if err := os.WriteFile(out, exp.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Session exported to %s\n", out)
	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	b, err := openSessions()
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.sessions.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Session cleared")
	return nil
}
