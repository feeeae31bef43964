// Package domain contains entity without logic, just meta-data
package domain

// RoomID is the caller-chosen rendezvous key. The core never parses it.
type RoomID string

// Role is assigned by join order and decides who sends the offer.
type Role string

const (
	RoleNone   Role = ""
	RoleFirst  Role = "first"
	RoleSecond Role = "second"
)

// RoomCapacity is the maximum number of members a room can hold.
const RoomCapacity = 2
