package handler

import (
	"context"

	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/internal/service"
)

// TapeLibraryInterface for handler testing
type TapeLibraryInterface interface {
	Refresh(ctx context.Context, seed int64) (*model.Batch, error)
	Get(profileKey string, index int) (model.GeneratedTape, error)
	Listing() (service.BatchListing, error)
	Status() service.MetricsSummary
}

// TapeSamplerInterface for handler testing
type TapeSamplerInterface interface {
	Sample(profileKey string, count int, seed int64) (model.GeneratedTape, error)
}
