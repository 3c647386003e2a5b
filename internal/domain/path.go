package domain

// Path — один из взаимозаменяемых путей выполнения запроса.
//
// Path указывает на executor по имени и несёт статический вес
// для weighted random выбора. После загрузки конфигурации
// Path неизменяем.
type Path struct {
	// Name — уникальное имя пути внутри routing group.
	Name string `json:"name"`

	// Weight — относительная вероятность выбора (> 0).
	Weight float64 `json:"weight"`

	// Executor — тип executor'а для вызова (http, delay).
	Executor string `json:"executor"`

	// Config — конфигурация executor'а (url, таймауты и т.д.).
	Config map[string]any `json:"config,omitempty"`
}

// RoutingGroup — группа взаимозаменяемых путей для одной логической операции.
//
// Первый путь в Paths — primary по умолчанию; остальные используются
// как backup-пул для hedging. Path Selector может переназначить primary
// per-request на основе статистики.
type RoutingGroup struct {
	// Name — уникальное имя группы.
	Name string `json:"name"`

	// Paths — кандидаты (непустой список, weights > 0).
	Paths []Path `json:"paths"`

	// HedgeThresholdMs — порог задержки для hedging (default: 200).
	HedgeThresholdMs int64 `json:"hedge_threshold_ms,omitempty"`

	// MaxHedgedRequests — максимум backup-вызовов на запрос (default: 2).
	MaxHedgedRequests int `json:"max_hedged_requests,omitempty"`

	// SpeculativeEnabled — включает speculative стратегию для
	// high-value запросов.
	SpeculativeEnabled bool `json:"speculative_enabled,omitempty"`
}

// PathNames возвращает имена всех путей группы в порядке конфигурации.
func (g *RoutingGroup) PathNames() []string {
	names := make([]string, len(g.Paths))
	for i := range g.Paths {
		names[i] = g.Paths[i].Name
	}
	return names
}

// PathByName возвращает путь группы по имени.
func (g *RoutingGroup) PathByName(name string) (*Path, bool) {
	for i := range g.Paths {
		if g.Paths[i].Name == name {
			return &g.Paths[i], true
		}
	}
	return nil, false
}

// Backups возвращает пути группы кроме primary, не более limit.
func (g *RoutingGroup) Backups(primary string, limit int) []Path {
	backups := make([]Path, 0, len(g.Paths))
	for i := range g.Paths {
		if g.Paths[i].Name == primary {
			continue
		}
		if len(backups) >= limit {
			break
		}
		backups = append(backups, g.Paths[i])
	}
	return backups
}
