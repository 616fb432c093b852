package replay

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gunzone/internal/autopilot"
	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/inventory"
	"github.com/vovakirdan/gunzone/internal/sim"
)

func record(t *testing.T, cfg *config.GameConfigs, mode sim.Mode, ticks int, loadout *inventory.Inventory) *Recording {
	t.Helper()
	opts := []sim.Option{sim.WithMode(mode)}
	if loadout != nil {
		opts = append(opts, sim.WithInventory(loadout))
	}
	g := sim.CreateGame(cfg, 2024, opts...)
	rec := NewRecorder(cfg, mode, 2024, "", loadout)
	pilot := autopilot.New(cfg)
	for range ticks {
		in := pilot.Next(g.State)
		rec.Record(in)
		sim.Tick(g, in, cfg)
	}
	return rec.Finish(g.State)
}

func TestRoundTripVerifies(t *testing.T) {
	cfg := config.Default()
	for _, mode := range []sim.Mode{sim.ModeArena, sim.ModeExtraction} {
		t.Run(string(mode), func(t *testing.T) {
			rec := record(t, cfg, mode, 600, nil)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, rec))
			back, err := Decode(&buf)
			require.NoError(t, err)

			assert.Equal(t, rec.Header, back.Header)
			assert.Len(t, back.Inputs, 600)

			res, err := Verify(back, cfg)
			require.NoError(t, err)
			assert.Equal(t, rec.Header.FinalHash, res.Hash)
			assert.Equal(t, 600, res.Ticks)
		})
	}
}

func TestLoadoutIsReplayed(t *testing.T) {
	cfg := config.Default()
	inv := inventory.FromKit(cfg, cfg.Extraction.StartingKit)
	_, _ = inv.Add(cfg, "dog_tags", 3)

	rec := record(t, cfg, sim.ModeExtraction, 120, inv)
	require.NotNil(t, rec.Loadout)

	path := filepath.Join(t.TempDir(), "run.gzr")
	require.NoError(t, Save(path, rec))
	back, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, back.Loadout.Count("dog_tags"))
	_, err = Verify(back, cfg)
	assert.NoError(t, err)
}

func TestDesyncDetected(t *testing.T) {
	cfg := config.Default()
	g := sim.CreateGame(cfg, 5)
	rec := NewRecorder(cfg, sim.ModeArena, 5, "", nil)
	for range 60 {
		in := core.InputState{MoveDir: core.V(1, 0)}
		rec.Record(in)
		sim.Tick(g, in, cfg)
	}
	out := rec.Finish(g.State)

	out.Inputs[10] = core.InputState{MoveDir: core.V(0, 1)}
	_, err := Verify(out, cfg)
	assert.ErrorIs(t, err, ErrDesync)
}

func TestConfigMismatch(t *testing.T) {
	cfg := config.Default()
	rec := record(t, cfg, sim.ModeArena, 30, nil)

	other := config.Default()
	other.Player.Speed++
	_, err := Verify(rec, other)
	assert.ErrorIs(t, err, ErrConfigMismatch)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a replay")))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Decode(bytes.NewReader(append([]byte("GZRP"), 1, 2, 3)))
	assert.Error(t, err)
}

func TestRecorderCopiesHotbarSlot(t *testing.T) {
	cfg := config.Default()
	rec := NewRecorder(cfg, sim.ModeExtraction, 1, "", nil)
	slot := 1
	rec.Record(core.InputState{HotbarUse: &slot})
	slot = 3

	out := rec.Finish(nil)
	require.NotNil(t, out.Inputs[0].HotbarUse)
	assert.Equal(t, 1, *out.Inputs[0].HotbarUse)
}
