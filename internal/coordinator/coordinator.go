// Package coordinator performs admin mutations against a gateway and
// applies them to the list controller once the gateway has confirmed them.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridianclub/backend/internal/gateway"
	"github.com/meridianclub/backend/internal/listview"
)

var (
	// ErrNotFound is returned when the target record is not in the local cache.
	ErrNotFound = gateway.ErrNotFound
	// ErrConfirmationDeclined is returned when the user declines a destructive action.
	ErrConfirmationDeclined = errors.New("confirmation declined")
	// ErrDetached is returned for calls that complete after Detach.
	ErrDetached = errors.New("coordinator detached")
	// ErrBusy is returned when a different request for the same action and
	// record is already in flight.
	ErrBusy = errors.New("action already in progress")
)

// Options configures a coordinator. Zero values get sensible defaults.
type Options struct {
	Notices *Notices
	Logger  *slog.Logger
	Now     func() time.Time
}

type core[T any] struct {
	noun    string
	gw      gateway.Gateway[T]
	list    *listview.Controller[T]
	notices *Notices
	logger  *slog.Logger
	now     func() time.Time

	flights  singleflight.Group
	mu       sync.Mutex
	inflight map[string]*flight
	loaded   bool
	loadErr  error
	detached atomic.Bool
}

func newCore[T any](noun string, gw gateway.Gateway[T], list *listview.Controller[T], opts Options) *core[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notices == nil {
		opts.Notices = NewNotices(opts.Now)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &core[T]{
		noun:     noun,
		gw:       gw,
		list:     list,
		notices:  opts.Notices,
		logger:   opts.Logger,
		now:      opts.Now,
		inflight: make(map[string]*flight),
	}
}

// List returns the controller this coordinator writes to.
func (c *core[T]) List() *listview.Controller[T] { return c.list }

// Notices returns the banner state.
func (c *core[T]) Notices() *Notices { return c.notices }

// Busy reports whether action is in flight for id.
func (c *core[T]) Busy(action, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[flightKey(action, id)]
	return ok
}

// Detach stops the coordinator from touching state. Calls that complete
// afterwards return ErrDetached.
func (c *core[T]) Detach() {
	c.detached.Store(true)
}

// Loaded reports whether a fetch has ever succeeded.
func (c *core[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// LoadErr returns the error from a failed first load, or nil.
func (c *core[T]) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Fetch reads every record without touching the controller.
func (c *core[T]) Fetch(ctx context.Context) ([]T, error) {
	if c.detached.Load() {
		return nil, ErrDetached
	}
	v, err, _ := c.flights.Do("fetch", func() (any, error) {
		return c.gw.FetchAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

// ApplyFetch stores the outcome of Fetch. A failed first load leaves the
// list empty and sets LoadErr; a failed refresh keeps the previous records
// and posts an error notice.
func (c *core[T]) ApplyFetch(records []T, err error) error {
	if c.detached.Load() {
		return ErrDetached
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error("fetch failed", "kind", c.noun, "first_load", !c.loaded, "error", err)
		if !c.loaded {
			c.loadErr = err
		} else {
			c.notices.Error(fmt.Sprintf("Could not refresh %ss: %v", c.noun, err))
		}
		return err
	}
	c.list.SetRecords(records)
	c.loaded = true
	c.loadErr = nil
	return nil
}

// Refresh fetches every record and applies the result.
func (c *core[T]) Refresh(ctx context.Context) error {
	records, err := c.Fetch(ctx)
	if errors.Is(err, ErrDetached) {
		return err
	}
	return c.ApplyFetch(records, err)
}

// mutation describes one single-flight write.
type mutation struct {
	action  string
	id      string
	payload string
	verb    string // used in the error notice: "Could not <verb>"
	call    func(ctx context.Context) error
	apply   func()
	success string
}

type flight struct {
	payload string
	callers int
}

// run executes m at most once per (action, id). A repeated identical request
// joins the outstanding one; a request with a different payload gets ErrBusy.
func (c *core[T]) run(ctx context.Context, m mutation) error {
	if c.detached.Load() {
		return ErrDetached
	}
	key := flightKey(m.action, m.id)

	c.mu.Lock()
	f, ok := c.inflight[key]
	if ok && f.payload != m.payload {
		c.mu.Unlock()
		return ErrBusy
	}
	if !ok {
		f = &flight{payload: m.payload}
		c.inflight[key] = f
	}
	f.callers++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if f.callers--; f.callers == 0 {
			delete(c.inflight, key)
		}
		c.mu.Unlock()
	}()

	_, err, _ := c.flights.Do(key, func() (any, error) {
		err := m.call(ctx)
		if c.detached.Load() {
			c.logger.Debug("discarding result after detach", "kind", c.noun, "action", m.action, "id", m.id)
			return nil, ErrDetached
		}
		if err != nil {
			c.logger.Error("mutation failed", "kind", c.noun, "action", m.action, "id", m.id, "error", err)
			c.notices.Error(fmt.Sprintf("Could not %s: %v", m.verb, err))
			return nil, err
		}
		m.apply()
		if m.success != "" {
			c.notices.Success(m.success)
		}
		return nil, nil
	})
	return err
}

func flightKey(action, id string) string {
	return action + ":" + id
}
