// Package relaycli implements the relayctl command line client.
package relaycli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oremus-labs/token-relay/internal/receiver"
)

var (
	serverURL   string
	httpTimeout time.Duration
)

// Execute runs the CLI.
func Execute() error {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Talk to a token relay server",
	Long: `relayctl sends questions to a token relay server and renders the
answer as it streams in. The push-stream and message-socket bindings print
tokens live; the single-shot binding replays the finished answer at a fixed
cadence so it reads the same way.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("RELAY_SERVER", "http://localhost:8080"), "Relay server base URL")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout",
		0, "Overall request timeout (0 = none; streams usually want none)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

func newClient() *receiver.Client {
	return &receiver.Client{
		BaseURL:    serverURL,
		HTTPClient: &http.Client{Timeout: httpTimeout},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exitWithError(cmd *cobra.Command, err error) {
	cmd.SilenceUsage = true
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
