package estimation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
)

type KeyResolverDeps struct {
	TenantSettings repos.TenantSettingsRepo
	PlatformConfig repos.PlatformConfigRepo
}

// ResolveKey chooses the inference credential for one call. forced may
// name a tier explicitly; a forced tier with no credential is fatal,
// never silently substituted. Unforced resolution prefers a tenant-owned
// key and falls back to the platform grace key.
//
// Only the tier label leaves this function in any diagnostic path; the
// key material itself is never logged.
func ResolveKey(ctx context.Context, deps KeyResolverDeps, tx *gorm.DB, tenantID uuid.UUID, forced string) (ResolvedKey, error) {
	tenantKey, err := tenantAPIKey(ctx, deps, tx, tenantID)
	if err != nil {
		return ResolvedKey{}, err
	}
	graceKey, err := platformGraceKey(ctx, deps, tx)
	if err != nil {
		return ResolvedKey{}, err
	}

	switch forced {
	case types.KeyTierTenant:
		if tenantKey == "" {
			return ResolvedKey{}, apierr.MissingCredential(errors.New("tenant credential required but not configured"))
		}
		return ResolvedKey{APIKey: tenantKey, Tier: types.KeyTierTenant}, nil
	case types.KeyTierPlatformGrace:
		if graceKey == "" {
			return ResolvedKey{}, apierr.MissingCredential(errors.New("platform grace credential required but not configured"))
		}
		return ResolvedKey{APIKey: graceKey, Tier: types.KeyTierPlatformGrace}, nil
	case "":
		if tenantKey != "" {
			return ResolvedKey{APIKey: tenantKey, Tier: types.KeyTierTenant}, nil
		}
		if graceKey != "" {
			return ResolvedKey{APIKey: graceKey, Tier: types.KeyTierPlatformGrace}, nil
		}
		return ResolvedKey{}, apierr.MissingCredential(errors.New("no inference credential available for tenant"))
	default:
		return ResolvedKey{}, apierr.InvalidInput(errors.New("unknown key source: " + forced))
	}
}

func tenantAPIKey(ctx context.Context, deps KeyResolverDeps, tx *gorm.DB, tenantID uuid.UUID) (string, error) {
	settings, err := deps.TenantSettings.GetByTenantID(ctx, tx, tenantID)
	if err != nil {
		return "", err
	}
	if settings == nil {
		return "", nil
	}
	return strings.TrimSpace(settings.APIKey), nil
}

func platformGraceKey(ctx context.Context, deps KeyResolverDeps, tx *gorm.DB) (string, error) {
	cfg, err := deps.PlatformConfig.Get(ctx, tx)
	if err != nil {
		// Key resolution does not own the missing-platform-config failure;
		// config resolution reports that as ConfigUnavailable.
		if errors.Is(err, config.ErrNoPlatformConfig) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(cfg.GraceAPIKey), nil
}
