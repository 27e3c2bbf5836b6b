// Package workflow provides the shared context that every view of one
// argument package is attached to.
//
// The context carries two things:
//   - A change bus. Any view that writes to the package broadcasts a
//     "package changed" notification tagged with its own originator token.
//     Every other subscriber is called; the originator is skipped, which is
//     what stops two open views from reloading each other forever.
//   - A Kind flag telling views whether this context may execute the engine.
//     A process context runs the calculation on commit; a workflow context
//     (a package embedded in a larger workflow definition) only stores it.
//
// Delivery is synchronous on the caller's goroutine, in subscription order.
// The bus is not safe for concurrent use; all views share one event loop.
package workflow

import (
	"github.com/google/uuid"
)

// Token identifies the originator of a change notification.
type Token uuid.UUID

// NewToken returns a fresh random token.
func NewToken() Token {
	return Token(uuid.New())
}

// String returns the canonical UUID text of the token.
func (t Token) String() string {
	return uuid.UUID(t).String()
}

// Kind describes what the host is allowed to do with the package.
type Kind int

const (
	// KindProcess is a standalone run: commit dispatches the engine.
	KindProcess Kind = iota
	// KindWorkflow is an embedded definition: commit only stores.
	KindWorkflow
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindProcess:
		return "process"
	case KindWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

// Listener is called when another view changed the package.
type Listener func()

type subscription struct {
	id       uint64
	token    Token
	listener Listener
}

// Context is the shared workflow context.
type Context struct {
	kind   Kind
	subs   []subscription
	nextID uint64
}

// NewContext returns a context of the given kind with no subscribers.
func NewContext(kind Kind) *Context {
	return &Context{kind: kind}
}

// Kind returns the context kind.
func (c *Context) Kind() Kind {
	return c.kind
}

// CanExecute reports whether commits on this context dispatch the engine.
func (c *Context) CanExecute() bool {
	return c.kind == KindProcess
}

// Subscribe registers fn under token and returns a function that removes
// the registration. Calling the returned function more than once is a
// no-op.
func (c *Context) Subscribe(token Token, fn Listener) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, token: token, listener: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Broadcast notifies every subscriber whose token differs from origin and
// returns how many listeners were called.
//
// The subscriber list is snapshotted first, so a listener may subscribe or
// unsubscribe (for example a dialog closing itself) without disturbing the
// delivery in progress.
func (c *Context) Broadcast(origin Token) int {
	snapshot := append([]subscription(nil), c.subs...)
	called := 0
	for _, s := range snapshot {
		if s.token == origin {
			continue
		}
		if !c.subscribed(s.id) {
			continue
		}
		s.listener()
		called++
	}
	return called
}

func (c *Context) subscribed(id uint64) bool {
	for _, s := range c.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

// Subscribers returns the number of active subscriptions.
func (c *Context) Subscribers() int {
	return len(c.subs)
}
