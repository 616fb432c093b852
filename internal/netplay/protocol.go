package netplay

import (
	"encoding/json"

	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

// Client message types.
const (
	MsgInput   = "input"
	MsgPause   = "pause"
	MsgRestart = "restart"
)

// Server message types.
const (
	MsgWelcome  = "welcome"
	MsgTick     = "tick"
	MsgSnapshot = "snapshot"
	MsgEnd      = "end"
	MsgError    = "error"
)

// ClientMessage is one frame sent by the browser.
type ClientMessage struct {
	Type  string          `json:"type"`
	Input core.InputState `json:"input"`
}

// ServerMessage is one frame sent to the browser.
type ServerMessage struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Mode    string          `json:"mode,omitempty"`
	Seed    int64           `json:"seed,omitempty"`
	Tick    uint64          `json:"tick"`
	Events  []sim.GameEvent `json:"events,omitempty"`
	State   json.RawMessage `json:"state,omitempty"`
	Summary *RunSummary     `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RunSummary reports a finished run.
type RunSummary struct {
	RunID   string `json:"runId,omitempty"`
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
	Kills   int    `json:"kills"`
	Cash    int    `json:"cash"`
	Ticks   uint64 `json:"ticks"`
}
