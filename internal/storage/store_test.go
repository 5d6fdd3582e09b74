package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/phys"
	"github.com/san-kum/boxsim/internal/vec"
)

func recordedRun(t *testing.T) *Recorder {
	t.Helper()
	w := phys.NewWorld()
	_, err := phys.NewBody(w, phys.BodyConfig{
		Position: vec.NewPos(0, 5, 0, 0),
		Extents:  vec.Vec{X: 0.1, Y: 0.1, Z: 0.1},
		Gravity:  true,
	})
	require.NoError(t, err)

	rec := NewRecorder()
	for i := 0; i < 5; i++ {
		w.StepTime(phys.DefaultStep)
		rec.Observe(w, w.Now())
	}
	return rec
}

func TestSaveListLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	rec := recordedRun(t)
	id, err := store.Save("drop", phys.DefaultStep, 5*phys.DefaultStep, 1,
		map[string]float64{"energy": 49.0}, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "drop", runs[0].Scenario)
	assert.Equal(t, 1, runs[0].Bodies)
	assert.Equal(t, 49.0, runs[0].Metrics["energy"])

	samples, err := store.LoadTrajectory(id)
	require.NoError(t, err)
	require.Len(t, samples, 5)
	assert.Equal(t, rec.Samples(), samples)
}

func TestListEmptyStore(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadTrajectoryUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())
	_, err := store.LoadTrajectory("nope")
	assert.Error(t, err)
}

func TestRecorderHeights(t *testing.T) {
	rec := recordedRun(t)
	times, series := rec.Heights()
	require.Len(t, times, 5)
	require.Len(t, series[0], 5)
	assert.Greater(t, series[0][0], series[0][4], "falling body descends")
}
