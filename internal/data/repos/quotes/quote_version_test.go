package quotes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos/testutil"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

func newVersion(tenantID, quoteID uuid.UUID) *types.QuoteVersion {
	return &types.QuoteVersion{
		QuoteID:  quoteID,
		TenantID: tenantID,
		Output:   datatypes.JSON([]byte(`{"summary":"x"}`)),
		Engine:   types.EngineFull,
		Source:   types.SourceTenantUser,
	}
}

func TestInsertNextVersionSequence(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, tx, "roofing")
	quote := testutil.SeedQuote(t, ctx, tx, tenant.ID)

	repo := NewQuoteVersionRepo(tx, testutil.Logger(t))
	for want := 1; want <= 3; want++ {
		v, err := repo.InsertNextVersion(ctx, nil, newVersion(tenant.ID, quote.ID))
		if err != nil {
			t.Fatalf("insert %d: %v", want, err)
		}
		if v.VersionNumber != want {
			t.Fatalf("expected version %d, got %d", want, v.VersionNumber)
		}
		if v.ID == uuid.Nil {
			t.Fatalf("insert did not return the generated id")
		}
	}

	maxN, err := repo.MaxVersionNumber(ctx, nil, quote.ID)
	if err != nil {
		t.Fatalf("max version: %v", err)
	}
	if maxN != 3 {
		t.Fatalf("expected max 3, got %d", maxN)
	}

	// Numbering is per quote, not global.
	other := testutil.SeedQuote(t, ctx, tx, tenant.ID)
	v, err := repo.InsertNextVersion(ctx, nil, newVersion(tenant.ID, other.ID))
	if err != nil {
		t.Fatalf("insert other quote: %v", err)
	}
	if v.VersionNumber != 1 {
		t.Fatalf("other quote should start at 1, got %d", v.VersionNumber)
	}
}

func TestGetByQuoteIDAscendingAndTenantScoped(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, tx, "roofing")
	quote := testutil.SeedQuote(t, ctx, tx, tenant.ID)

	repo := NewQuoteVersionRepo(tx, testutil.Logger(t))
	for i := 0; i < 3; i++ {
		if _, err := repo.InsertNextVersion(ctx, nil, newVersion(tenant.ID, quote.ID)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	versions, err := repo.GetByQuoteID(ctx, nil, tenant.ID, quote.ID)
	if err != nil {
		t.Fatalf("get versions: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}
	for i, v := range versions {
		if v.VersionNumber != i+1 {
			t.Fatalf("versions not ascending: %d at index %d", v.VersionNumber, i)
		}
	}

	// Another tenant sees nothing, even with the right quote id.
	foreign, err := repo.GetByQuoteID(ctx, nil, uuid.New(), quote.ID)
	if err != nil {
		t.Fatalf("foreign tenant get: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("tenant scoping leaked %d versions", len(foreign))
	}
}

// Concurrent writers race for the same next number; exactly one wins per
// number and every loser gets ErrDuplicateVersion rather than a gap.
func TestInsertNextVersionConcurrentRace(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, db, "roofing")
	quote := testutil.SeedQuote(t, ctx, db, tenant.ID)
	t.Cleanup(func() {
		db.Where("quote_id = ?", quote.ID).Delete(&types.QuoteVersion{})
		db.Unscoped().Where("id = ?", quote.ID).Delete(&types.Quote{})
		db.Unscoped().Where("id = ?", tenant.ID).Delete(&types.Tenant{})
	})

	repo := NewQuoteVersionRepo(db, testutil.Logger(t))

	const writers = 8
	var (
		mu        sync.Mutex
		won       []int
		conflicts int
	)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.InsertNextVersion(ctx, nil, newVersion(tenant.ID, quote.ID))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, ErrDuplicateVersion) {
					t.Errorf("unexpected error: %v", err)
				}
				conflicts++
				return
			}
			won = append(won, v.VersionNumber)
		}()
	}
	wg.Wait()

	if len(won)+conflicts != writers {
		t.Fatalf("lost a writer: %d wins + %d conflicts", len(won), conflicts)
	}
	seen := map[int]bool{}
	maxN := 0
	for _, n := range won {
		if seen[n] {
			t.Fatalf("duplicate version number %d", n)
		}
		seen[n] = true
		if n > maxN {
			maxN = n
		}
	}
	// Winners form a gapless 1..len(won) sequence.
	if maxN != len(won) {
		t.Fatalf("gap in version numbers: max %d with %d winners", maxN, len(won))
	}
}
