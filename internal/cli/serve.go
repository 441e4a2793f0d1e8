package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/appspark/waitlist/internal/server"
	"github.com/appspark/waitlist/internal/store"
	"github.com/spf13/cobra"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the waitlist HTTP server.

The server provides:
  - Landing page, signup form and questionnaire
  - Signup API at /api/notion (and /api/signup)
  - Insights API at /api/insights and the protected /insights dashboard
  - Health check endpoint

Example:
  waitlist serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (WAITLIST_PORT)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (WAITLIST_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if port != 0 {
		cfg.Port = port
	}

	return withStore(func(s store.Store) error {
		srv := server.New(server.Options{
			Store:       s,
			Logger:      logger,
			Port:        cfg.Port,
			TokenFile:   tokenFilePath(),
			SignupRate:  cfg.SignupRate,
			SignupBurst: cfg.SignupBurst,
		})

		printStartup(cmd, srv.Port(), srv.Token(), s.Name())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	})
}

func printStartup(cmd *cobra.Command, port int, token, storeName string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "waitlist running on http://localhost:%d (store: %s)\n", port, storeName)
	fmt.Fprintf(out, "Insights: http://localhost:%d/insights?token=%s\n", port, token)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop")
}
