package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shaiso/Superpose/internal/domain"
)

// AdaptiveConfig — параметры адаптивного selector'а.
type AdaptiveConfig struct {
	// Enabled включает Thompson Sampling.
	Enabled bool `json:"enabled"`

	// MinSamples — минимальная суммарная выборка для адаптивного
	// режима (default: 20).
	MinSamples int64 `json:"min_samples,omitempty"`
}

// Config — конфигурация маршрутизатора.
type Config struct {
	// Groups — routing groups (непустой список).
	Groups []domain.RoutingGroup `json:"groups"`

	// Adaptive — параметры адаптивного выбора путей.
	Adaptive AdaptiveConfig `json:"adaptive"`

	// SpeculativeFollowups — request kind → payloads вероятных
	// следующих запросов.
	SpeculativeFollowups map[string][]map[string]any `json:"speculative_followups,omitempty"`

	// ObservationTTLSec — время жизни observations в секундах
	// (default: 3600).
	ObservationTTLSec int `json:"observation_ttl_sec,omitempty"`
}

// Load читает и валидирует конфигурацию из файла.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse парсит и валидирует конфигурацию из JSON.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate выполняет полную валидацию конфигурации.
//
// Проверяет:
// - Наличие хотя бы одной группы
// - Уникальность имён групп
// - Наличие путей в каждой группе (selection space непустой)
// - Положительность весов
// - Уникальность имён путей внутри группы
func Validate(cfg *Config) error {
	if cfg == nil || len(cfg.Groups) == 0 {
		return ErrNoGroups
	}

	groupNames := make(map[string]bool)
	for i := range cfg.Groups {
		group := &cfg.Groups[i]

		if group.Name == "" {
			return ErrEmptyGroupName
		}
		if groupNames[group.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateGroup, group.Name)
		}
		groupNames[group.Name] = true

		if err := validateGroup(group); err != nil {
			return err
		}
	}
	return nil
}

// validateGroup валидирует пути одной группы.
func validateGroup(group *domain.RoutingGroup) error {
	if len(group.Paths) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPaths, group.Name)
	}

	pathNames := make(map[string]bool)
	for i := range group.Paths {
		path := &group.Paths[i]

		if path.Name == "" {
			return fmt.Errorf("%w: group %s", ErrEmptyPathName, group.Name)
		}
		if pathNames[path.Name] {
			return fmt.Errorf("%w: %s/%s", ErrDuplicatePath, group.Name, path.Name)
		}
		pathNames[path.Name] = true

		if path.Weight <= 0 {
			return fmt.Errorf("%w: %s/%s has weight %v",
				ErrInvalidWeight, group.Name, path.Name, path.Weight)
		}
	}
	return nil
}

// GroupByName возвращает группу по имени.
func (c *Config) GroupByName(name string) (*domain.RoutingGroup, bool) {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i], true
		}
	}
	return nil, false
}
