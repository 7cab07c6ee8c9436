package estimation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/quotes"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// versionWriteRetries bounds how often a lost version-number race is
// replayed before surfacing VersionConflict.
const versionWriteRetries = 3

type VersionWriterDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Quotes   repos.QuoteRepo
	Versions repos.QuoteVersionRepo
}

type VersionWriteInput struct {
	TenantID uuid.UUID
	QuoteID  uuid.UUID

	ActorID   uuid.UUID
	ActorName string
	Engine    string
	Source    string
	Reason    string

	Output   datatypes.JSON
	Metadata datatypes.JSON
}

// WriteVersion appends the new immutable version and advances the
// quote's current-output projection in one transaction, so readers of
// the projection never observe a version that was not committed. The
// version number is assigned inside the insert statement itself; a lost
// race re-runs the whole unit rather than reading-then-writing.
func WriteVersion(ctx context.Context, deps VersionWriterDeps, in VersionWriteInput) (*types.QuoteVersion, error) {
	var lastErr error

	for attempt := 0; attempt < versionWriteRetries; attempt++ {
		version := &types.QuoteVersion{
			QuoteID:       in.QuoteID,
			TenantID:      in.TenantID,
			Output:        in.Output,
			CreatedByID:   in.ActorID,
			CreatedByName: in.ActorName,
			Engine:        in.Engine,
			Source:        in.Source,
			Reason:        in.Reason,
			Metadata:      in.Metadata,
		}

		err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inserted, err := deps.Versions.InsertNextVersion(ctx, tx, version)
			if err != nil {
				return err
			}
			version = inserted
			return deps.Quotes.UpdateCurrentOutput(ctx, tx, in.TenantID, in.QuoteID, in.Output, inserted.VersionNumber)
		})
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, quotes.ErrDuplicateVersion) {
			return nil, err
		}

		lastErr = err
		deps.Log.Warn("version number race lost, retrying insert",
			"quote_id", in.QuoteID, "attempt", attempt+1)
	}

	return nil, apierr.VersionConflict(lastErr)
}
