// Package uisession keeps the per-browser UI state of the console.
//
// Every Session owns one goroutine. All reads and writes of the session's
// State happen on that goroutine: request handlers and background producers
// submit closures through Access or AccessAsync and never touch State
// directly. Closures must not call Access on their own session.
package uisession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/menu"
)

var (
	// ErrSessionClosed is returned when work is submitted to a closed session.
	ErrSessionClosed = errors.New("uisession: session closed")
	// ErrQueueFull is returned by AccessAsync when the session is saturated.
	ErrQueueFull = errors.New("uisession: queue full")
)

// QueueSize bounds the number of pending closures per session.
const QueueSize = 64

// MaxNotices bounds the pending footer notices; the oldest are dropped first.
const MaxNotices = 50

// Notice is a short footer message pushed to a session.
type Notice struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// State is the session-confined UI state. It is only reachable from inside
// a closure passed to Access or AccessAsync.
type State struct {
	User    menu.User
	Menu    *menu.Data
	notices []Notice
	edits   map[string]any
}

// PushNotice queues a notice for the footer.
func (st *State) PushNotice(n Notice) {
	st.notices = append(st.notices, n)
	if over := len(st.notices) - MaxNotices; over > 0 {
		st.notices = append([]Notice(nil), st.notices[over:]...)
	}
}

// DrainNotices returns and clears the pending notices.
func (st *State) DrainNotices() []Notice {
	out := st.notices
	st.notices = nil
	return out
}

// PendingNotices reports how many notices are queued.
func (st *State) PendingNotices() int { return len(st.notices) }

// PutEdit stores an open edit session under id.
func (st *State) PutEdit(id string, v any) {
	if st.edits == nil {
		st.edits = make(map[string]any)
	}
	st.edits[id] = v
}

// Edit returns the edit session stored under id.
func (st *State) Edit(id string) (any, bool) {
	v, ok := st.edits[id]
	return v, ok
}

// DropEdit discards the edit session stored under id.
func (st *State) DropEdit(id string) {
	delete(st.edits, id)
}

// EditCount reports the number of open edit sessions.
func (st *State) EditCount() int { return len(st.edits) }

// Session is one browser's UI session with its executor goroutine.
type Session struct {
	id    string
	tasks chan func(*State)
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
	seen  atomic.Int64
	now   func() time.Time
}

func newSession(id string, user menu.User, now func() time.Time) *Session {
	s := &Session{
		id:    id,
		tasks: make(chan func(*State), QueueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		now:   now,
	}
	s.touch()
	go s.loop(&State{User: user, Menu: menu.Empty()})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// LastSeen returns the time of the most recent submission.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.seen.Load()) }

// Done is closed once the executor goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Access runs fn on the session goroutine and waits for it to finish. If
// ctx ends first, Access returns ctx.Err(); a closure already queued still
// runs. A panic inside fn is recovered and returned as an error.
func (s *Session) Access(ctx context.Context, fn func(*State)) error {
	if fn == nil {
		return nil
	}
	s.touch()

	finished := make(chan error, 1)
	task := func(st *State) {
		defer func() {
			if r := recover(); r != nil {
				finished <- fmt.Errorf("uisession: closure panicked: %v", r)
			}
		}()
		fn(st)
		finished <- nil
	}

	select {
	case <-s.quit:
		return ErrSessionClosed
	default:
	}

	select {
	case s.tasks <- task:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-finished:
		return err
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AccessAsync queues fn without waiting. Panics inside fn are swallowed so
// the session keeps running.
func (s *Session) AccessAsync(fn func(*State)) error {
	if fn == nil {
		return nil
	}
	select {
	case <-s.quit:
		return ErrSessionClosed
	default:
	}

	task := func(st *State) {
		defer func() { _ = recover() }()
		fn(st)
	}
	select {
	case s.tasks <- task:
		return nil
	case <-s.quit:
		return ErrSessionClosed
	default:
		return ErrQueueFull
	}
}

// Close stops the executor. Pending closures are dropped. Close does not
// wait; use Done for that.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
}

func (s *Session) touch() { s.seen.Store(s.now().UnixNano()) }

func (s *Session) loop(st *State) {
	defer close(s.done)
	for {
		// Prefer quit so that a closed session never runs queued work.
		select {
		case <-s.quit:
			return
		default:
		}
		select {
		case <-s.quit:
			return
		case task := <-s.tasks:
			task(st)
		}
	}
}
