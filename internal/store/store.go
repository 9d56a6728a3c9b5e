package store

import (
	"context"
	"errors"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/profile"
	"github.com/enso-trainer/backend/internal/review"
)

var ErrNotFound = errors.New("not found")

// Store is everything the service layer needs from persistence. The SQLite
// implementation is the production one; tests may substitute fakes.
type Store interface {
	review.Store
	analytics.Store

	GetProfile(ctx context.Context, sessionID string) (*profile.Profile, error)
	SaveProfile(ctx context.Context, p *profile.Profile) error

	SaveRun(ctx context.Context, r *caserun.Run) error
	GetRun(ctx context.Context, runID string) (*caserun.Run, error)
	DeleteRun(ctx context.Context, runID string) error
}
