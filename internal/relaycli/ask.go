package relaycli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oremus-labs/token-relay/internal/playback"
	"github.com/oremus-labs/token-relay/internal/receiver"
)

var (
	askVia     string
	askCadence time.Duration
	askQuiet   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and stream the answer",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := receiver.New(displayHooks())
		defer r.Close()

		var err error
		switch askVia {
		case "sse":
			err = newClient().AskStream(ctx, question, r)
		case "ws":
			err = askOverSocket(ctx, question, r)
		case "nostream":
			err = askUnaryWithPlayback(ctx, question, r)
		default:
			err = fmt.Errorf("unknown binding %q (want sse, ws or nostream)", askVia)
		}
		if err != nil {
			exitWithError(cmd, err)
		}
	},
}

func init() {
	askCmd.Flags().StringVar(&askVia, "via", "sse", "Binding to use: sse|ws|nostream")
	askCmd.Flags().DurationVar(&askCadence, "cadence", playback.DefaultCadence,
		"Inter-token delay for nostream playback")
	askCmd.Flags().BoolVarP(&askQuiet, "quiet", "q", false, "Suppress timing summary")
}

// displayHooks renders the single response target on the terminal. Tokens go
// to stdout; status and timing go to stderr so the answer pipes cleanly.
func displayHooks() receiver.Hooks {
	return receiver.Hooks{
		OnToken: func(text string) {
			fmt.Print(text)
		},
		OnDone: func(s receiver.Summary) {
			fmt.Println()
			if askQuiet {
				return
			}
			if s.HasResponseTime {
				fmt.Fprintf(os.Stderr, "first token after %.2fs\n", s.ResponseTime)
			}
			if s.HasTiming {
				fmt.Fprintf(os.Stderr, "generated in %.2fs\n", s.Timing)
			}
		},
		OnError: func(message string) {
			fmt.Println()
			fmt.Fprintf(os.Stderr, "generation failed: %s\n", message)
		},
	}
}

func askOverSocket(ctx context.Context, question string, r *receiver.Receiver) error {
	session, err := newClient().DialSocket(ctx)
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Ask(question, r)
}

// askUnaryWithPlayback fetches the whole answer, then replays it token by
// token so the terminal experience matches the streaming bindings.
func askUnaryWithPlayback(ctx context.Context, question string, r *receiver.Receiver) error {
	resp, err := newClient().AskUnary(ctx, question)
	if err != nil {
		return err
	}
	if err := r.Submit(); err != nil {
		return err
	}

	sim := playback.New(askCadence)
	summary, err := sim.Play(ctx, resp.Response, resp.Timing, r)
	if err != nil {
		return err
	}
	if !askQuiet {
		fmt.Fprintf(os.Stderr, "backend %.2fs, replay %.2fs, total %.2fs\n",
			summary.Backend, summary.Display, summary.Total)
	}
	return nil
}
