package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// platformDefaults is the YAML shape of the boot-time defaults file.
type platformDefaults struct {
	EstimatorModel string `yaml:"estimator_model"`
	QAModel        string `yaml:"qa_model"`
	RenderModel    string `yaml:"render_model"`

	BaseEstimatorPrompt string `yaml:"base_estimator_prompt"`
	BaseQAPrompt        string `yaml:"base_qa_prompt"`

	MaxOutputTokens       int   `yaml:"max_output_tokens"`
	MaxImages             int   `yaml:"max_images"`
	MaxImageBytes         int64 `yaml:"max_image_bytes"`
	ImageFetchTimeoutSecs int   `yaml:"image_fetch_timeout_secs"`
	NotesCharBudget       int   `yaml:"notes_char_budget"`
	NotesLimit            int   `yaml:"notes_limit"`
}

// EnsurePlatformConfig seeds the singleton platform configuration from
// a YAML file when the row is missing. An existing row always wins: the
// platform console owns it after first boot. The grace credential comes
// from the environment, never from the file.
func EnsurePlatformConfig(ctx context.Context, log *logger.Logger, repo repos.PlatformConfigRepo, path, graceAPIKey string) error {
	_, err := repo.Get(ctx, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, config.ErrNoPlatformConfig) {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read platform defaults %s: %w", path, err)
	}
	var def platformDefaults
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("parse platform defaults %s: %w", path, err)
	}
	if def.EstimatorModel == "" || def.BaseEstimatorPrompt == "" {
		return fmt.Errorf("platform defaults %s: estimator_model and base_estimator_prompt are required", path)
	}

	cfg := &types.PlatformConfig{
		EstimatorModel:        def.EstimatorModel,
		QAModel:               def.QAModel,
		RenderModel:           def.RenderModel,
		BaseEstimatorPrompt:   def.BaseEstimatorPrompt,
		BaseQAPrompt:          def.BaseQAPrompt,
		MaxOutputTokens:       orInt(def.MaxOutputTokens, 2048),
		MaxImages:             orInt(def.MaxImages, 6),
		MaxImageBytes:         orInt64(def.MaxImageBytes, 8<<20),
		ImageFetchTimeoutSecs: orInt(def.ImageFetchTimeoutSecs, 12),
		NotesCharBudget:       orInt(def.NotesCharBudget, 6000),
		NotesLimit:            orInt(def.NotesLimit, 50),
		GraceAPIKey:           graceAPIKey,
	}

	if _, err := repo.Upsert(ctx, nil, cfg); err != nil {
		return err
	}
	log.Info("seeded platform configuration from defaults file", "path", path)
	return nil
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orInt64(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}
