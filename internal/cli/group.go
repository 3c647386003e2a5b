package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewGroupCmd создаёт группу команд для просмотра routing groups.
func NewGroupCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Inspect routing groups",
	}

	cmd.AddCommand(
		newGroupListCmd(clientFn, outputFn),
		newGroupPathsCmd(clientFn, outputFn),
	)

	return cmd
}

func newGroupListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List routing groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			groups, err := client.ListGroups()
			if err != nil {
				return err
			}

			headers := []string{"NAME", "PATHS", "HEDGE_MS", "MAX_HEDGES", "SPECULATIVE"}
			rows := make([][]string, len(groups))
			for i, g := range groups {
				rows[i] = []string{
					g.Name,
					strings.Join(g.Paths, ","),
					strconv.FormatInt(g.HedgeThresholdMs, 10),
					strconv.Itoa(g.MaxHedgedRequests),
					strconv.FormatBool(g.SpeculativeEnabled),
				}
			}

			out.Print(headers, rows, groups)
			return nil
		},
	}
}

func newGroupPathsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "paths GROUP",
		Short: "List paths of a group with their statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			paths, err := client.ListGroupPaths(args[0])
			if err != nil {
				return err
			}

			headers := []string{"NAME", "WEIGHT", "EXECUTOR", "TOTAL", "SUCCESS_RATE", "AVG_MS"}
			rows := make([][]string, len(paths))
			for i, p := range paths {
				rows[i] = []string{
					p.Name,
					strconv.FormatFloat(p.Weight, 'f', -1, 64),
					p.Executor,
					strconv.FormatInt(p.TotalCount, 10),
					fmt.Sprintf("%.1f%%", p.SuccessRate*100),
					fmt.Sprintf("%.1f", p.AverageLatencyMs),
				}
			}

			out.Print(headers, rows, paths)
			return nil
		},
	}
}
