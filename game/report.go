package game

import (
	"github.com/codetanks/codetanks/arenaserver/protocol"
)

// TankEvent is one combat event as delivered to the tank it concerns.
type TankEvent struct {
	Tick  uint32         `json:"tick"`
	Tank  uint64         `json:"tank"`
	Event protocol.Event `json:"event"`
}

// AgentFailure records why a tank played a no-op.
type AgentFailure struct {
	Tank  uint64 `json:"tank"`
	Error string `json:"error"`
}

type TickReport struct {
	Tick          uint32         `json:"tick"`
	Events        []TankEvent    `json:"events"`
	AgentFailures []AgentFailure `json:"agent_failures,omitempty"`
	Shots         int            `json:"shots"`
	Hits          int            `json:"hits"`
	Destroyed     []uint64       `json:"destroyed,omitempty"`
	Alive         int            `json:"alive"`
	Finished      bool           `json:"finished"`
}
