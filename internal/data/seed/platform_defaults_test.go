package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type memPlatformConfigRepo struct {
	cfg *types.PlatformConfig
}

func (m *memPlatformConfigRepo) Get(ctx context.Context, tx *gorm.DB) (*types.PlatformConfig, error) {
	if m.cfg == nil {
		return nil, config.ErrNoPlatformConfig
	}
	return m.cfg, nil
}

func (m *memPlatformConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, cfg *types.PlatformConfig) (*types.PlatformConfig, error) {
	m.cfg = cfg
	return cfg, nil
}

func writeDefaults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "platform_defaults.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write defaults: %v", err)
	}
	return path
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestEnsurePlatformConfigSeedsWhenMissing(t *testing.T) {
	path := writeDefaults(t, `
estimator_model: gpt-5.2
base_estimator_prompt: You are an estimator.
max_images: 4
`)

	repo := &memPlatformConfigRepo{}
	if err := EnsurePlatformConfig(context.Background(), testLogger(t), repo, path, "grace-key"); err != nil {
		t.Fatalf("EnsurePlatformConfig: %v", err)
	}

	if repo.cfg == nil {
		t.Fatalf("no row seeded")
	}
	if repo.cfg.EstimatorModel != "gpt-5.2" || repo.cfg.MaxImages != 4 {
		t.Fatalf("defaults not applied: %+v", repo.cfg)
	}
	if repo.cfg.GraceAPIKey != "grace-key" {
		t.Fatalf("grace key must come from the environment argument")
	}
	// Omitted numeric fields fall back to the built-in defaults.
	if repo.cfg.MaxOutputTokens != 2048 || repo.cfg.NotesCharBudget != 6000 {
		t.Fatalf("fallback defaults missing: %+v", repo.cfg)
	}
}

func TestEnsurePlatformConfigExistingRowWins(t *testing.T) {
	path := writeDefaults(t, `
estimator_model: gpt-6
base_estimator_prompt: Newer prompt.
`)

	repo := &memPlatformConfigRepo{cfg: &types.PlatformConfig{
		EstimatorModel:      "gpt-5.2",
		BaseEstimatorPrompt: "Console-edited prompt.",
	}}
	if err := EnsurePlatformConfig(context.Background(), testLogger(t), repo, path, ""); err != nil {
		t.Fatalf("EnsurePlatformConfig: %v", err)
	}
	if repo.cfg.EstimatorModel != "gpt-5.2" {
		t.Fatalf("seed overwrote an existing row: %+v", repo.cfg)
	}
}

func TestEnsurePlatformConfigRejectsIncompleteDefaults(t *testing.T) {
	path := writeDefaults(t, `
qa_model: gpt-5-mini
`)

	repo := &memPlatformConfigRepo{}
	if err := EnsurePlatformConfig(context.Background(), testLogger(t), repo, path, ""); err == nil {
		t.Fatalf("expected error for missing required fields")
	}
}
