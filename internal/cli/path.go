package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewPathCmd создаёт группу команд для просмотра путей.
func NewPathCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Inspect execution paths",
	}

	cmd.AddCommand(
		newPathObservationsCmd(clientFn, outputFn),
	)

	return cmd
}

func newPathObservationsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var sinceSec int
	var limit int

	cmd := &cobra.Command{
		Use:   "observations PATH",
		Short: "List recent observations of a path (newest first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			observations, err := client.ListObservations(args[0], ListObservationsOpts{
				SinceSec: sinceSec,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "REQUEST_ID", "LATENCY_MS", "SUCCESS", "STRATEGY", "TIMESTAMP"}
			rows := make([][]string, len(observations))
			for i, o := range observations {
				rows[i] = []string{
					o.ID,
					o.RequestID,
					strconv.FormatInt(o.LatencyMs, 10),
					strconv.FormatBool(o.Success),
					o.Strategy,
					o.Timestamp,
				}
			}

			out.Print(headers, rows, observations)
			return nil
		},
	}

	cmd.Flags().IntVar(&sinceSec, "since-sec", 0, "Window size in seconds (default: 1 hour)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}
