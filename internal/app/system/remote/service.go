// internal/app/system/remote/service.go
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"go.uber.org/zap"
)

// Service is the typed stub of one remote entity collection. Every method
// reports success or failure through the Result envelope.
type Service[T any] interface {
	Find(ctx context.Context, q paging.Query) paging.Result[paging.Page[T]]
	Count(ctx context.Context, q paging.CountQuery) paging.Result[int64]
	Get(ctx context.Context, id int64) paging.Result[T]
	Save(ctx context.Context, item T) paging.Result[T]
	Delete(ctx context.Context, id int64) paging.Result[bool]
}

// HTTPService is the real Service backed by a Client. Requests go to
// <base>/<resource>/find, /count, /{id} (GET, DELETE) and <base>/<resource>
// (PUT for save).
type HTTPService[T any] struct {
	client   *Client
	resource string
	log      *zap.Logger
}

// NewHTTPService returns the HTTP stub for resource.
func NewHTTPService[T any](c *Client, resource string, logger *zap.Logger) *HTTPService[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPService[T]{client: c, resource: resource, log: logger}
}

func (s *HTTPService[T]) Find(ctx context.Context, q paging.Query) paging.Result[paging.Page[T]] {
	res := call[paging.Page[T]](ctx, s.client, s.log, http.MethodPost, "/"+s.resource+"/find", q, true)
	if res.Success && res.Data != nil && res.Data.Content == nil {
		res.Data.Content = []T{}
	}
	return res
}

func (s *HTTPService[T]) Count(ctx context.Context, q paging.CountQuery) paging.Result[int64] {
	return call[int64](ctx, s.client, s.log, http.MethodPost, "/"+s.resource+"/count", q, true)
}

func (s *HTTPService[T]) Get(ctx context.Context, id int64) paging.Result[T] {
	return call[T](ctx, s.client, s.log, http.MethodGet, s.itemPath(id), nil, true)
}

func (s *HTTPService[T]) Save(ctx context.Context, item T) paging.Result[T] {
	return call[T](ctx, s.client, s.log, http.MethodPut, "/"+s.resource, item, false)
}

func (s *HTTPService[T]) Delete(ctx context.Context, id int64) paging.Result[bool] {
	return call[bool](ctx, s.client, s.log, http.MethodDelete, s.itemPath(id), nil, false)
}

func (s *HTTPService[T]) itemPath(id int64) string {
	return "/" + s.resource + "/" + strconv.FormatInt(id, 10)
}

// Call performs one request and folds the outcome into a Result. It is the
// building block for service operations outside the CRUD set.
func Call[R any](ctx context.Context, c *Client, logger *zap.Logger, method, path string, body any, retry bool) paging.Result[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return call[R](ctx, c, logger, method, path, body, retry)
}

func call[R any](ctx context.Context, c *Client, logger *zap.Logger, method, path string, body any, retry bool) paging.Result[R] {
	var res paging.Result[R]
	err := c.Do(ctx, method, path, body, &res, retry)
	if err == nil {
		return res
	}

	var se *StatusError
	if errors.As(err, &se) && !se.Temporary() {
		// Rejections usually carry an envelope with the reason.
		var env paging.Result[R]
		if json.Unmarshal(se.Body, &env) == nil && env.Message != "" {
			return paging.Fail[R](env.Message)
		}
		if se.StatusCode == http.StatusNotFound {
			return paging.NotFound[R]()
		}
		return paging.Fail[R](http.StatusText(se.StatusCode))
	}

	logger.Warn("remote call failed",
		zap.String("base_url", c.BaseURL()),
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err))
	return paging.Unreachable[R]()
}

// FallbackService answers every call with the fixed "Cannot connect to
// server" failure and performs no I/O.
type FallbackService[T any] struct{}

func (FallbackService[T]) Find(context.Context, paging.Query) paging.Result[paging.Page[T]] {
	return paging.Unreachable[paging.Page[T]]()
}

func (FallbackService[T]) Count(context.Context, paging.CountQuery) paging.Result[int64] {
	return paging.Unreachable[int64]()
}

func (FallbackService[T]) Get(context.Context, int64) paging.Result[T] {
	return paging.Unreachable[T]()
}

func (FallbackService[T]) Save(context.Context, T) paging.Result[T] {
	return paging.Unreachable[T]()
}

func (FallbackService[T]) Delete(context.Context, int64) paging.Result[bool] {
	return paging.Unreachable[bool]()
}

// IsUnreachable reports whether a failed result came from a transport
// failure or a fallback rather than from the service rejecting the call.
func IsUnreachable(success bool, message string) bool {
	return !success && message == paging.CannotConnect
}
