// Package replay records a run as its seed plus the per-tick input stream
// and re-simulates recordings to check they still produce the same game.
//
// Files are a short magic prefix followed by a zstd-compressed msgpack
// document.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/inventory"
	"github.com/vovakirdan/gunzone/internal/sim"
)

// Version is bumped whenever the file layout changes.
const Version = 1

var magic = []byte("GZRP")

var (
	ErrBadMagic       = errors.New("replay: not a replay file")
	ErrVersion        = errors.New("replay: unsupported version")
	ErrConfigMismatch = errors.New("replay: recorded with a different config")
	ErrDesync         = errors.New("replay: simulation desynced")
)

// Header identifies the run a recording belongs to.
type Header struct {
	Version      int    `msgpack:"v"`
	Mode         string `msgpack:"mode"`
	Seed         int64  `msgpack:"seed"`
	Weapon       string `msgpack:"weapon,omitempty"`
	ConfigDigest uint64 `msgpack:"cfg"`
	Ticks        int    `msgpack:"ticks"`
	FinalHash    uint64 `msgpack:"hash"`
	Score        int    `msgpack:"score"`
}

// Recording is a complete replay.
type Recording struct {
	Header  Header               `msgpack:"h"`
	Loadout *inventory.Inventory `msgpack:"loadout,omitempty"`
	Inputs  []core.InputState    `msgpack:"in"`
}

// Options rebuilds the creation options of the recorded run.
func (r *Recording) Options() []sim.Option {
	opts := []sim.Option{sim.WithMode(sim.Mode(r.Header.Mode))}
	if r.Header.Weapon != "" {
		opts = append(opts, sim.WithStartingWeapon(r.Header.Weapon))
	}
	if r.Loadout != nil {
		opts = append(opts, sim.WithInventory(r.Loadout))
	}
	return opts
}

// Recorder collects inputs while a run is played.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording. loadout may be nil; it is copied.
func NewRecorder(cfg *config.GameConfigs, mode sim.Mode, seed int64, weapon string, loadout *inventory.Inventory) *Recorder {
	return &Recorder{rec: Recording{
		Header: Header{
			Version:      Version,
			Mode:         string(mode),
			Seed:         seed,
			Weapon:       weapon,
			ConfigDigest: config.Digest(cfg),
		},
		Loadout: loadout.Clone(),
	}}
}

// Record appends the input of one tick.
func (r *Recorder) Record(in core.InputState) {
	if in.HotbarUse != nil {
		slot := *in.HotbarUse
		in.HotbarUse = &slot
	}
	r.rec.Inputs = append(r.rec.Inputs, in)
}

// Len returns the number of recorded ticks.
func (r *Recorder) Len() int {
	return len(r.rec.Inputs)
}

// Finish stamps the final state and returns the recording.
func (r *Recorder) Finish(s *sim.GameState) *Recording {
	r.rec.Header.Ticks = len(r.rec.Inputs)
	if s != nil {
		r.rec.Header.FinalHash = sim.Hash(s)
		r.rec.Header.Score = s.Score
	}
	return &r.rec
}

// Encode writes rec to w.
func Encode(w io.Writer, rec *Recording) error {
	raw, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("replay: compressor: %w", err)
	}
	defer enc.Close()

	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	if _, err := w.Write(enc.EncodeAll(raw, nil)); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	return nil
}

// Decode reads a recording written by Encode.
func Decode(r io.Reader) (*Recording, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("replay: read: %w", err)
	}
	body, ok := bytes.CutPrefix(data, magic)
	if !ok {
		return nil, ErrBadMagic
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("replay: decompressor: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("replay: decompression failed: %w", err)
	}

	var rec Recording
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Header.Version)
	}
	return &rec, nil
}

// Save writes rec to path.
func Save(path string, rec *Recording) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("replay: save: %w", err)
	}
	return nil
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Result is the outcome of a re-simulation.
type Result struct {
	Game  *sim.Game
	Ticks int
	Hash  uint64
}

// Play re-simulates rec under cfg, calling onTick (if non-nil) after every
// tick.
func Play(rec *Recording, cfg *config.GameConfigs, onTick func(*sim.GameState)) *Result {
	g := sim.CreateGame(cfg, rec.Header.Seed, rec.Options()...)
	for _, in := range rec.Inputs {
		sim.Tick(g, in, cfg)
		if onTick != nil {
			onTick(g.State)
		}
	}
	return &Result{Game: g, Ticks: len(rec.Inputs), Hash: sim.Hash(g.State)}
}

// Verify re-simulates rec and compares the final hash. A config whose
// digest differs from the recorded one is rejected before simulating.
func Verify(rec *Recording, cfg *config.GameConfigs) (*Result, error) {
	if d := config.Digest(cfg); d != rec.Header.ConfigDigest {
		return nil, fmt.Errorf("%w: recorded %016x, have %016x", ErrConfigMismatch, rec.Header.ConfigDigest, d)
	}
	res := Play(rec, cfg, nil)
	if res.Hash != rec.Header.FinalHash {
		return res, fmt.Errorf("%w: expected %016x, got %016x after %d ticks", ErrDesync, rec.Header.FinalHash, res.Hash, res.Ticks)
	}
	return res, nil
}
