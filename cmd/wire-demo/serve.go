package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpAdapter "github.com/wirekit/wire/internal/adapters/http"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the binding inspection server",
	Long: `Mounts a demo instance and exposes its live binding state over
HTTP: /binders lists binders, /binders/api/instances lists instance
snapshots, and /metrics exposes prometheus counters for invocations,
settlements, stale drops, and cache hits.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		binder, env, reg, err := buildBinder(cmd)
		if err != nil {
			fmt.Printf("Error building binder: %v\n", err)
			os.Exit(1)
		}

		view := ports.ComponentFunc(func(props domain.Props) any { return props })
		inst := binder.Bind(view).New(env, domain.Props{"id": "1"}, nil)
		defer inst.Close()

		if err := inst.Mount(context.Background()); err != nil {
			fmt.Printf("Error mounting: %v\n", err)
			os.Exit(1)
		}

		r := chi.NewRouter()
		r.Mount("/", httpAdapter.NewHandler(map[string]httpAdapter.Inspector{"api": binder}, nil))
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting inspection server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Inspection server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
