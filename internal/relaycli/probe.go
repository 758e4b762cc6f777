package relaycli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the relay can reach its generation service",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := newClient().Probe(ctx)
		if err != nil {
			exitWithError(cmd, err)
		}
		if result.Status != "success" {
			exitWithError(cmd, fmt.Errorf("%s", result.Message))
		}
		fmt.Println(result.Message)
		if result.Response != "" {
			fmt.Printf("sample response: %s\n", result.Response)
		}
	},
}
