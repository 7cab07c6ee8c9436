package bus

import (
	"context"

	"github.com/google/uuid"
)

// VersionCreated is published after a quote version commits so tenant
// UIs can refresh without polling.
type VersionCreated struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	QuoteID       uuid.UUID `json:"quote_id"`
	VersionID     uuid.UUID `json:"version_id"`
	VersionNumber int       `json:"version_number"`
}

type Bus interface {
	Publish(ctx context.Context, msg VersionCreated) error
	Subscribe(ctx context.Context, onMsg func(m VersionCreated)) error
	Close() error
}

// noopBus drops every event. Used when redis is not configured so the
// pipeline keeps working without realtime fan-out.
type noopBus struct{}

func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, VersionCreated) error           { return nil }
func (noopBus) Subscribe(context.Context, func(m VersionCreated)) error { return nil }
func (noopBus) Close() error                                            { return nil }
