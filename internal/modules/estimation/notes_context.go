package estimation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

// BuildNotesContext loads up to limit most-recent notes and renders
// them into one canonical text block. Notes are re-sorted ascending by
// (created_at, id) so the output is independent of storage retrieval
// order, then each is collapsed to a single line, joined with newlines,
// and hard-truncated to charBudget runes. The cut is not word-boundary
// aware: a reproducible truncation point matters more than a tidy one.
func BuildNotesContext(ctx context.Context, noteRepo repos.QuoteNoteRepo, tx *gorm.DB, tenantID, quoteID uuid.UUID, limit, charBudget int) (*NotesContext, error) {
	notes, err := noteRepo.GetRecentByQuoteID(ctx, tx, tenantID, quoteID, limit)
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID.String() < notes[j].ID.String()
	})

	lines := make([]string, 0, len(notes))
	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, renderNoteLine(n))
		ids = append(ids, n.ID)
	}

	text := strings.Join(lines, "\n")
	if charBudget > 0 {
		if runes := []rune(text); len(runes) > charBudget {
			text = string(runes[:charBudget])
		}
	}

	sum := sha256.Sum256([]byte(text))
	return &NotesContext{
		Text:        text,
		SHA256:      hex.EncodeToString(sum[:]),
		NoteIDsUsed: ids,
		Count:       len(notes),
	}, nil
}

func renderNoteLine(n *types.QuoteNote) string {
	body := strings.Join(strings.Fields(n.Body), " ")
	author := strings.Join(strings.Fields(n.AuthorName), " ")
	ts := n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	if author == "" {
		return "[" + ts + "] " + body
	}
	return "[" + ts + "] " + author + ": " + body
}
