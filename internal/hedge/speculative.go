package hedge

import (
	"context"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/telemetry"
)

// executeSpeculative возвращает результат primary и параллельно
// fire-and-forget вызывает primary для вероятных следующих запросов.
//
// Speculative вызовы никогда не блокируют запрос и не фейлят его:
// их исходы отбрасываются, учитывается только счётчик. Таблица
// followups статическая: request kind → payloads следующих запросов.
func (o *Orchestrator) executeSpeculative(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path) (map[string]any, string, error) {
	followups := o.followups[req.Kind]

	for i := range followups {
		payload := followups[i]
		// Speculative вызов не должен отменяться вместе с уже
		// разрешённым запросом: у него свой таймаут в Invoker
		specCtx := context.WithoutCancel(ctx)

		go func() {
			if _, err := o.invoker.Invoke(specCtx, primary.Name, payload, 0); err != nil {
				o.logger.Debug("speculative invocation failed",
					"request_id", req.ID,
					"path", primary.Name,
					"error", err,
				)
			}
			telemetry.SpeculativeInvocations.Inc()
		}()
	}

	if len(followups) > 0 {
		o.logger.Debug("speculative followups fired",
			"request_id", req.ID,
			"kind", req.Kind,
			"count", len(followups),
		)
	}

	return o.executePrimaryOnly(ctx, req, group, primary)
}
