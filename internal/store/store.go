// Package store provides persistence for named strategies.
package store

import (
	"context"

	"optionlab/internal/models"
)

// StrategyStore defines the interface for strategy persistence.
type StrategyStore interface {
	Save(ctx context.Context, name string, legs []models.OptionLeg) (*models.SavedStrategy, error)
	List(ctx context.Context) ([]models.SavedStrategy, error)
	Get(ctx context.Context, id string) (*models.SavedStrategy, error)
	Update(ctx context.Context, id, name string, legs []models.OptionLeg) (*models.SavedStrategy, error)
	Delete(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
