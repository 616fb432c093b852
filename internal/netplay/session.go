package netplay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/games/gunzone"
	"github.com/vovakirdan/gunzone/internal/metrics"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/sim"
	"github.com/vovakirdan/gunzone/internal/storage"
)

// RunHandler persists a finished run and returns its ID.
type RunHandler func(r storage.RunRecord) (string, error)

// SessionConfig tunes one session.
type SessionConfig struct {
	Mode          string
	Seed          int64
	SnapshotEvery int
	OutboxSize    int
	OnRunEnd      RunHandler
	Metrics       *metrics.Metrics
	Logger        *log.Logger
}

// Session runs one simulation for one connected client. Input arrives
// through Push from any goroutine; Advance must only be called from the
// goroutine that owns the session (Run).
type Session struct {
	id   string
	cfg  SessionConfig
	game *gunzone.Game

	mu      sync.Mutex
	pending core.InputState
	actions []core.Action

	outbox   chan []byte
	done     chan struct{}
	doneOnce sync.Once

	tick    atomic.Uint64
	dropped atomic.Uint64
	ended   bool
	sinceSS int
	stepped []sim.GameEvent // events of the tick just simulated, nil if none ran
}

// NewSession creates the game for cfg.Mode and queues the welcome frame.
func NewSession(id string, cfg SessionConfig) (*Session, error) {
	g, err := registry.Create(cfg.Mode)
	if err != nil {
		return nil, err
	}
	game, ok := g.(*gunzone.Game)
	if !ok {
		return nil, fmt.Errorf("netplay: mode %q is not playable over the web", cfg.Mode)
	}
	if cfg.SnapshotEvery < 1 {
		cfg.SnapshotEvery = 3
	}
	if cfg.OutboxSize < 1 {
		cfg.OutboxSize = 128
	}

	game.Reset(core.RuntimeConfig{TickRate: 60, Seed: cfg.Seed})
	s := &Session{
		id:     id,
		cfg:    cfg,
		game:   game,
		outbox: make(chan []byte, cfg.OutboxSize),
		done:   make(chan struct{}),
	}
	game.Observe(s.observe)

	s.send(ServerMessage{Type: MsgWelcome, Session: id, Mode: cfg.Mode, Seed: cfg.Seed})
	s.sendSnapshot()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the mode being played.
func (s *Session) Mode() string {
	return s.cfg.Mode
}

// Tick returns the last simulated tick. Safe from any goroutine.
func (s *Session) Tick() uint64 {
	return s.tick.Load()
}

// Dropped returns how many outbound frames were discarded.
func (s *Session) Dropped() uint64 {
	return s.dropped.Load()
}

// Outbox returns the channel of encoded frames for the writer.
func (s *Session) Outbox() <-chan []byte {
	return s.outbox
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Push applies one client message. Edge-triggered input is latched until
// the next tick consumes it.
func (s *Session) Push(msg ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MsgInput:
		s.pending = s.pending.Latch(msg.Input)
	case MsgPause:
		s.actions = append(s.actions, core.ActionPause)
	case MsgRestart:
		s.actions = append(s.actions, core.ActionRestart)
	default:
		return fmt.Errorf("netplay: unknown message type %q", msg.Type)
	}
	return nil
}

// take returns the input for this tick and keeps only the held part.
func (s *Session) take() (core.InputState, []core.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.pending
	s.pending = in.Held()
	actions := s.actions
	s.actions = nil
	return in, actions
}

// Advance applies queued actions and simulates one tick.
func (s *Session) Advance() {
	in, actions := s.take()
	for _, a := range actions {
		wasEnded := s.game.State().Ended()
		s.game.Handle(a)
		if a == core.ActionRestart && wasEnded && !s.game.State().Ended() {
			s.ended = false
			s.send(ServerMessage{Type: MsgWelcome, Session: s.id, Mode: s.cfg.Mode, Seed: s.game.Seed()})
			s.sendSnapshot()
		}
	}

	s.stepped = nil
	start := time.Now()
	res := s.game.Step(in)
	if s.stepped != nil && s.cfg.Metrics != nil {
		s.cfg.Metrics.ObserveTick(s.stepped, time.Since(start))
	}

	if res.State.Ended() && !s.ended {
		s.ended = true
		s.finish()
	}
}

// Run advances the session at tickRate until ctx is cancelled or the
// session is closed.
func (s *Session) Run(ctx context.Context, tickRate int) {
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Advance()
		}
	}
}

func (s *Session) observe(tick uint64, _ core.InputState, events []sim.GameEvent) {
	s.tick.Store(s.game.Sim().State.Tick)
	s.stepped = events
	if s.stepped == nil {
		s.stepped = []sim.GameEvent{}
	}

	if len(events) > 0 {
		s.send(ServerMessage{Type: MsgTick, Tick: tick, Events: events})
	}
	s.sinceSS++
	if s.sinceSS >= s.cfg.SnapshotEvery {
		s.sendSnapshot()
	}
}

func (s *Session) finish() {
	rec := s.game.Record()
	summary := &RunSummary{
		Outcome: rec.Outcome,
		Score:   rec.Score,
		Kills:   rec.Kills,
		Cash:    rec.Cash,
		Ticks:   rec.Ticks,
	}
	if s.cfg.OnRunEnd != nil {
		id, err := s.cfg.OnRunEnd(rec)
		if err != nil {
			s.logger().Warn("could not save run", "session", s.id, "error", err)
		}
		summary.RunID = id
	}
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ObserveRun(rec.Mode, rec.Outcome)
	}

	s.sendSnapshot()
	s.send(ServerMessage{Type: MsgEnd, Tick: rec.Ticks, Summary: summary})
	s.logger().Info("run finished", "session", s.id, "mode", rec.Mode, "outcome", rec.Outcome, "score", rec.Score)
}

func (s *Session) sendSnapshot() {
	s.sinceSS = 0
	state, err := sim.GetSnapshot(s.game.Sim().State)
	if err != nil {
		s.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return
	}
	s.send(ServerMessage{Type: MsgSnapshot, Tick: s.game.Sim().State.Tick, State: json.RawMessage(state)})
}

// send encodes msg and queues it. If the buffer is full the oldest frame
// is dropped.
func (s *Session) send(msg ServerMessage) {
	select {
	case <-s.done:
		return
	default:
	}

	data, err := json.Marshal(msg)
	if err != nil {
		s.logger().Error("cannot encode frame", "type", msg.Type, "error", err)
		return
	}

	select {
	case s.outbox <- data:
		return
	default:
	}

	select {
	case <-s.outbox:
		s.dropped.Add(1)
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.DroppedFrames.Inc()
		}
	default:
	}
	select {
	case s.outbox <- data:
	default:
	}
}

func (s *Session) logger() *log.Logger {
	if s.cfg.Logger != nil {
		return s.cfg.Logger
	}
	return log.Default()
}
