package coordinator

import (
	"sync"
	"time"
)

// SuccessTTL is how long a success notice stays visible.
const SuccessTTL = 3 * time.Second

// NoticeKind distinguishes error banners from success banners.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a single banner message.
type Notice struct {
	Kind   NoticeKind
	Text   string
	Posted time.Time
}

// Notices holds the current banner. Posting replaces any previous notice.
// Errors stay until dismissed; successes expire after SuccessTTL.
type Notices struct {
	mu  sync.Mutex
	cur *Notice
	now func() time.Time
}

// NewNotices creates a Notices using now as its clock. A nil now uses time.Now.
func NewNotices(now func() time.Time) *Notices {
	if now == nil {
		now = time.Now
	}
	return &Notices{now: now}
}

func (n *Notices) Success(text string) { n.post(NoticeSuccess, text) }
func (n *Notices) Error(text string)   { n.post(NoticeError, text) }

func (n *Notices) post(kind NoticeKind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur = &Notice{Kind: kind, Text: text, Posted: n.now()}
}

// Current returns the visible notice, if any.
func (n *Notices) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cur == nil {
		return Notice{}, false
	}
	if n.cur.Kind == NoticeSuccess && n.now().Sub(n.cur.Posted) >= SuccessTTL {
		n.cur = nil
		return Notice{}, false
	}
	return *n.cur, true
}

// Dismiss clears the current notice.
func (n *Notices) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur = nil
}
