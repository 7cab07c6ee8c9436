package quotes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// ErrDuplicateVersion is returned when two writers raced for the same
// version number. The caller re-runs InsertNextVersion; the losing
// insert never partially applies.
var ErrDuplicateVersion = errors.New("duplicate quote version number")

type QuoteVersionRepo interface {
	// InsertNextVersion assigns max(version_number)+1 and inserts the row
	// as one statement, so the number can never be computed from a stale
	// read. Returns ErrDuplicateVersion on a lost race.
	InsertNextVersion(ctx context.Context, tx *gorm.DB, v *types.QuoteVersion) (*types.QuoteVersion, error)
	GetByQuoteID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID) ([]*types.QuoteVersion, error)
	MaxVersionNumber(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (int, error)
}

type quoteVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteVersionRepo(db *gorm.DB, baseLog *logger.Logger) QuoteVersionRepo {
	return &quoteVersionRepo{db: db, log: baseLog.With("repo", "QuoteVersionRepo")}
}

func (r *quoteVersionRepo) InsertNextVersion(ctx context.Context, tx *gorm.DB, v *types.QuoteVersion) (*types.QuoteVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if v == nil {
		return nil, errors.New("nil quote version")
	}
	if v.QuoteID == uuid.Nil || v.TenantID == uuid.Nil {
		return nil, errors.New("quote version requires quote_id and tenant_id")
	}

	var row struct {
		ID            uuid.UUID `gorm:"column:id"`
		VersionNumber int       `gorm:"column:version_number"`
	}

	err := transaction.WithContext(ctx).Raw(`
		INSERT INTO quote_version
			(id, quote_id, tenant_id, version_number, output,
			 created_by_id, created_by_name, engine, source, reason, metadata, created_at)
		VALUES
			(uuid_generate_v4(), @quote_id, @tenant_id,
			 (SELECT COALESCE(MAX(version_number), 0) + 1 FROM quote_version WHERE quote_id = @quote_id),
			 @output, @created_by_id, @created_by_name, @engine, @source, @reason, @metadata, now())
		RETURNING id, version_number`,
		map[string]interface{}{
			"quote_id":        v.QuoteID,
			"tenant_id":       v.TenantID,
			"output":          v.Output,
			"created_by_id":   v.CreatedByID,
			"created_by_name": v.CreatedByName,
			"engine":          v.Engine,
			"source":          v.Source,
			"reason":          v.Reason,
			"metadata":        v.Metadata,
		},
	).Scan(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateVersion
		}
		return nil, err
	}

	v.ID = row.ID
	v.VersionNumber = row.VersionNumber
	return v, nil
}

func (r *quoteVersionRepo) GetByQuoteID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID) ([]*types.QuoteVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuoteVersion
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		Order("version_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quoteVersionRepo) MaxVersionNumber(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var max int
	if err := transaction.WithContext(ctx).
		Model(&types.QuoteVersion{}).
		Where("quote_id = ?", quoteID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
