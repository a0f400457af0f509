package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// Manager runs the configured migration strategy
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose scripts for driver, or gorm AutoMigrate when auto is set.
func NewManager(driver string, auto bool, log logger.Interface) (*Manager, error) {
	if auto {
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy(log, AutoMigrateModels()...), log), nil
	}

	strategy, err := NewGooseStrategy(driver, log)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Goose returns the goose strategy, or an error when the manager runs AutoMigrate.
func (m *Manager) Goose() (*GooseStrategy, error) {
	g, ok := m.strategy.(*GooseStrategy)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not support versioned operations", m.strategy.GetName())
	}
	return g, nil
}
