package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ragui/internal/activity"
	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/db"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/server"
	"github.com/ziadkadry99/ragui/internal/ui"
)

// activityRetention bounds how long recorded backend calls are kept.
const activityRetention = 30 * 24 * time.Hour

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the browser front-end",
	Long: `Starts the ragui web server: the tabbed RAG front-end, the activity log API
and, when an upstream is configured, a same-origin proxy to the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		database, err := openState(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		store := activity.NewStore(database)
		if n, err := store.DeleteBefore(context.Background(), time.Now().Add(-activityRetention)); err != nil {
			log.Printf("server: purging activity log: %v", err)
		} else if n > 0 {
			log.Printf("server: purged %d old activity entries", n)
		}

		renderer, err := render.New()
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		srv, err := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       cfg.CORSAllowAll,
			Upstream:       cfg.API.Upstream,
			HandlerTimeout: cfg.RequestTimeout() + 30*time.Second,
		}, database)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		mountRoutes(srv.Router(), cfg, database, store, renderer)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "ragui server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Variant: %s\n", cfg.Variant)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		if cfg.API.Upstream != "" {
			fmt.Fprintf(os.Stderr, "  Upstream: %s\n", cfg.API.Upstream)
		}
		if cfg.ActivityAPI {
			fmt.Fprintln(os.Stderr, "  Activity API: enabled at /api/activity")
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// mountRoutes attaches the front-end and, when enabled, the activity API.
func mountRoutes(r chi.Router, cfg *config.Config, database *db.DB, store *activity.Store, renderer *render.Renderer) {
	if cfg.ActivityAPI {
		activity.RegisterRoutes(r, store)
	}
	ui.New(cfg, newClient(cfg, database), renderer).RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serverCmd)
}
