package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/scbrown/gearcalc/internal/search"
	"github.com/scbrown/gearcalc/internal/server"
	"github.com/scbrown/gearcalc/internal/store"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server for searches and catalog lookups",
	Long: `Start an HTTP server that runs gear train searches and exposes the local
SQLite catalog over HTTP. Remote clients can search and look up ratios without
installing the catalog themselves.

The server provides a JSON API at /api/v1/ with endpoints for search, ratios,
runs and gears. A health check is available at /api/v1/health. Searches use the
active gear catalog; --max caps how many gears a client may request (default 8).

Use gearcalc config to set store_mode=remote and remote_url to point other
gearcalc instances at this server instead of a local database.`,
	Example: `  # Start server on default port
  gearcalc serve

  # Start on a custom address with a smaller search limit
  gearcalc serve --addr :9090 --max 6

  # Start with a specific database
  gearcalc serve --db /path/to/gears.db --addr localhost:7274`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeCatalog()
		if err != nil {
			return err
		}
		_, hi := gearRange(search.DefaultMinGears, search.DefaultMaxGears)
		if err := search.ValidateRange(search.DefaultMinGears, hi); err != nil {
			return fmt.Errorf("--max: %w", err)
		}

		s, err := store.New(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		srv := server.New(s,
			server.WithCatalog(c),
			server.WithMaxGears(hi),
			server.WithLogger(logger))

		// Listen first so we can report the actual address.
		ln, err := net.Listen("tcp", serveAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", serveAddr, err)
		}

		logger.Info("gearcalc serve listening", "addr", ln.Addr().String(), "db", dbPath)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()

		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return srv.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":7274", "address to listen on (host:port)")
	rootCmd.AddCommand(serveCmd)
}
