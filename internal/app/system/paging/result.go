// internal/app/system/paging/result.go
package paging

// CannotConnect is the fixed message fallback clients return when the
// backing service is unreachable.
const CannotConnect = "Cannot connect to server"

// Result is the tri-state envelope returned by backend services.
//
// Callers branch on Success first: Data is meaningless when Success is
// false. A successful single-entity lookup with nil Data means "not found".
type Result[T any] struct {
	Success bool   `json:"isSuccess"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: &v}
}

// NotFound is a successful result with no data.
func NotFound[T any]() Result[T] {
	return Result[T]{Success: true}
}

// Fail builds a failed result carrying msg.
func Fail[T any](msg string) Result[T] {
	return Result[T]{Success: false, Message: msg}
}

// Unreachable is the failure every fallback client returns.
func Unreachable[T any]() Result[T] {
	return Fail[T](CannotConnect)
}

// Value returns the data and true only for a successful result that carries
// data.
func (r Result[T]) Value() (T, bool) {
	var zero T
	if !r.Success || r.Data == nil {
		return zero, false
	}
	return *r.Data, true
}

// Page is one window of a larger result set. TotalElements drives the
// pagination controls and is independent of len(Content).
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
}

// EmptyPage returns a page with no rows and a zero total.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Content: []T{}, TotalElements: 0}
}

// PageOf builds a page from rows and a total.
func PageOf[T any](rows []T, total int64) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Content: rows, TotalElements: total}
}
