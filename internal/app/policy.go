package app

import "github.com/dkeye/Duet/internal/core"

type BackpressureAction int

const (
	DropMessage BackpressureAction = iota
	CloseMember
)

// Policy decides what happens when a relayed frame cannot be queued.
type Policy interface {
	OnBackPressure(member core.MemberSession, err error) BackpressureAction
}

// SimplePolicy drops the frame and leaves the connection alone.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.MemberSession, error) BackpressureAction {
	return DropMessage
}

// StrictPolicy closes peers that cannot keep up.
type StrictPolicy struct{}

func (StrictPolicy) OnBackPressure(core.MemberSession, error) BackpressureAction {
	return CloseMember
}
