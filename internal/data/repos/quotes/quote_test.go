package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos/testutil"
)

func TestQuoteGetByIDTenantScoped(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, tx, "roofing")
	quote := testutil.SeedQuote(t, ctx, tx, tenant.ID)

	repo := NewQuoteRepo(tx, testutil.Logger(t))

	got, err := repo.GetByID(ctx, nil, tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != quote.ID {
		t.Fatalf("wrong quote returned")
	}

	// The right quote id under the wrong tenant is not found.
	if _, err := repo.GetByID(ctx, nil, uuid.New(), quote.ID); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
}

func TestQuoteUpdateCurrentOutput(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, tx, "roofing")
	quote := testutil.SeedQuote(t, ctx, tx, tenant.ID)

	repo := NewQuoteRepo(tx, testutil.Logger(t))

	output := datatypes.JSON([]byte(`{"summary":"done"}`))
	if err := repo.UpdateCurrentOutput(ctx, nil, tenant.ID, quote.ID, output, 4); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentVersionNumber != 4 {
		t.Fatalf("expected version 4, got %d", got.CurrentVersionNumber)
	}
	if len(got.CurrentOutput) == 0 {
		t.Fatalf("output not stored")
	}

	// Updating under the wrong tenant must touch nothing.
	err = repo.UpdateCurrentOutput(ctx, nil, uuid.New(), quote.ID, output, 5)
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
}
