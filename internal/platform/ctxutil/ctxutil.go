package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}
type traceDataKey struct{}

// RequestData carries the authenticated tenant/actor identity for one request.
type RequestData struct {
	TenantID  uuid.UUID
	ActorID   uuid.UUID
	ActorName string
	Role      string
}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, _ := ctx.Value(requestDataKey{}).(*RequestData)
	return rd
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}
