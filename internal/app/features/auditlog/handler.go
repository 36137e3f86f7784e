// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/dataprovider"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventReader is the read side of the audit store.
type EventReader interface {
	Find(ctx context.Context, q paging.Query) ([]audit.Event, error)
	Count(ctx context.Context, q paging.CountQuery) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (audit.Event, error)
}

// Handler serves the console's own audit log as a grid.
type Handler struct {
	Events   EventReader
	Log      *zap.Logger
	provider *dataprovider.Provider[audit.Event]
}

// NewHandler wires the audit store into a grid data provider. Store errors
// become failed results so the grid shows an empty window.
func NewHandler(events EventReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{Events: events, Log: logger}

	fetch := func(ctx context.Context, q paging.Query) paging.Result[paging.Page[audit.Event]] {
		rows, err := events.Find(ctx, q)
		if err != nil {
			return paging.Fail[paging.Page[audit.Event]](err.Error())
		}
		total, err := events.Count(ctx, q.Count())
		if err != nil {
			return paging.Fail[paging.Page[audit.Event]](err.Error())
		}
		return paging.OK(paging.PageOf(rows, total))
	}
	count := func(ctx context.Context, q paging.CountQuery) paging.Result[int64] {
		n, err := events.Count(ctx, q)
		if err != nil {
			return paging.Fail[int64](err.Error())
		}
		return paging.OK(n)
	}

	h.provider = dataprovider.New(fetch, count, dataprovider.Options[audit.Event]{
		Name:        "audit",
		DefaultSort: []paging.SortOrder{paging.Desc("timestamp")},
	}, logger)
	return h
}
