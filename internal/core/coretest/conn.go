// Package coretest provides in-memory core.SignalConnection implementations
// for tests.
package coretest

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/domain"
)

var ErrClosed = errors.New("coretest: connection closed")

// Conn records every frame it is asked to send.
type Conn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.frames = append(c.frames, append(core.Frame(nil), f...))
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Conn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

// Types returns the "type" field of every recorded frame.
func (c *Conn) Types() []string {
	var out []string
	for _, f := range c.Frames() {
		var env core.Envelope
		if err := json.Unmarshal(f, &env); err != nil {
			out = append(out, "!invalid")
			continue
		}
		out = append(out, env.Type)
	}
	return out
}

// NewSession returns a session backed by a fresh Conn.
func NewSession(name string) (core.MemberSession, *Conn) {
	conn := &Conn{}
	return core.NewMemberSession(core.SessionID(name), domain.ClientToken("client-"+name), conn), conn
}
