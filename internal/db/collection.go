package db

import (
	"context"
	"errors"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

var (
	ErrAssetNotFound    = errors.New("asset not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrNilCollection    = errors.New("mongo collection is nil")
)

// AssetFilter narrows an asset query. Zero fields match everything.
type AssetFilter struct {
	Category models.AssetCategory
	Status   models.AssetStatus
	Limit    int64
}

// AssetCollection defines the read operations the engine needs on asset data.
type AssetCollection interface {
	FindAssets(ctx context.Context, filter AssetFilter) ([]models.Asset, error)
	FindAssetByID(ctx context.Context, id string) (*models.Asset, error)
}

// OperatorStore looks up operators allowed to log in.
type OperatorStore interface {
	FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
}
