package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewRouteCmd создаёт команду отправки запроса через роутер.
func NewRouteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var payloadJSON string
	var inputs []string
	var kind string
	var priority string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "route GROUP",
		Short: "Route a request through a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := RouteRequestBody{
				Kind:      kind,
				Priority:  priority,
				SessionID: sessionID,
			}

			if payloadJSON != "" {
				if err := json.Unmarshal([]byte(payloadJSON), &req.Payload); err != nil {
					return fmt.Errorf("invalid payload JSON: %w", err)
				}
			}

			for _, kv := range inputs {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid input format %q, expected KEY=VALUE", kv)
				}
				if req.Payload == nil {
					req.Payload = make(map[string]any)
				}
				req.Payload[parts[0]] = parts[1]
			}

			result, err := client.Route(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Routed via %s (%s, %dms)",
				result.WinningSource, result.Strategy, result.LatencyMs))
			out.Print(
				[]string{"REQUEST_ID", "STRATEGY", "WINNER", "LATENCY_MS", "HEDGES", "REASON"},
				[][]string{{
					result.RequestID,
					result.Strategy,
					result.WinningSource,
					strconv.FormatInt(result.LatencyMs, 10),
					strconv.Itoa(result.HedgeCount),
					result.Reason,
				}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&payloadJSON, "payload", "", "Request payload as JSON object")
	cmd.Flags().StringSliceVar(&inputs, "input", nil, "Payload values as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&kind, "kind", "", "Request kind (used for speculative lookup)")
	cmd.Flags().StringVar(&priority, "priority", "", "Request priority (NORMAL, HIGH)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Stable session identifier")

	return cmd
}
