package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avierra/taskwell/internal/httpapi"
)

// serveAddrFlag holds the --addr flag value for "serve".
var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task HTTP API",
	Long: `Start the HTTP API server.

Exposes task CRUD, completion, and query endpoints under /api/tasks, plus a
/healthz probe. Tasks live in memory for the lifetime of the server process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		addr := serveAddrFlag
		if addr == "" && Config != nil {
			addr = Config.HTTPAddr
		}
		if addr == "" {
			addr = ":8080"
		}

		srv := httpapi.NewServer(Store, EventLog)
		fmt.Printf("Serving taskwell API on %s\n", addr)
		if err := srv.Run(addr); err != nil {
			return fmt.Errorf("running HTTP server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (default from config, else :8080)")
	rootCmd.AddCommand(serveCmd)
}
