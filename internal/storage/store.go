// Package storage persists simulation runs: one directory per run with
// JSON metadata and a CSV body trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/boxsim/internal/phys"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Step      float64            `json:"step"`
	Duration  float64            `json:"duration"`
	Bodies    int                `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one body's state at one recorded instant.
type Sample struct {
	T          float64
	Body       int
	X, Y, Z    float64
	VX, VY, VZ float64
	Supported  bool
}

// Recorder samples a world's bodies into memory, one frame per call.
type Recorder struct {
	samples []Sample
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Observe(w *phys.World, t float64) {
	for i, b := range w.Bodies() {
		p := b.Position(t)
		v := b.Velocity(t)
		r.samples = append(r.samples, Sample{
			T: t, Body: i,
			X: p.X, Y: p.Y, Z: p.Z,
			VX: v.X, VY: v.Y, VZ: v.Z,
			Supported: b.Supported(),
		})
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Heights returns the recorded times and one height series per body,
// in a shape the plotting layer consumes directly.
func (r *Recorder) Heights() (times []float64, series map[int][]float64) {
	series = make(map[int][]float64)
	for _, s := range r.samples {
		if s.Body == 0 {
			times = append(times, s.T)
		}
		series[s.Body] = append(series[s.Body], s.Y)
	}
	return times, series
}

// Save writes a run directory and returns its generated ID.
func (s *Store) Save(scenario string, step, duration float64, bodies int, metricValues map[string]float64, rec *Recorder) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Step:      step,
		Duration:  duration,
		Bodies:    bodies,
		Metrics:   metricValues,
	}
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"t", "body", "x", "y", "z", "vx", "vy", "vz", "supported"}); err != nil {
		return "", err
	}
	for _, sm := range rec.Samples() {
		row := []string{
			strconv.FormatFloat(sm.T, 'g', -1, 64),
			strconv.Itoa(sm.Body),
			strconv.FormatFloat(sm.X, 'g', -1, 64),
			strconv.FormatFloat(sm.Y, 'g', -1, 64),
			strconv.FormatFloat(sm.Z, 'g', -1, 64),
			strconv.FormatFloat(sm.VX, 'g', -1, 64),
			strconv.FormatFloat(sm.VY, 'g', -1, 64),
			strconv.FormatFloat(sm.VZ, 'g', -1, 64),
			strconv.FormatBool(sm.Supported),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// List returns metadata for every saved run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// LoadTrajectory reads back a saved run's samples.
func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("run %s: empty trajectory", runID)
	}

	samples := make([]Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 9 {
			return nil, fmt.Errorf("run %s: malformed row %v", runID, row)
		}
		var sm Sample
		var errs [8]error
		sm.T, errs[0] = strconv.ParseFloat(row[0], 64)
		sm.Body, errs[1] = strconv.Atoi(row[1])
		sm.X, errs[2] = strconv.ParseFloat(row[2], 64)
		sm.Y, errs[3] = strconv.ParseFloat(row[3], 64)
		sm.Z, errs[4] = strconv.ParseFloat(row[4], 64)
		sm.VX, errs[5] = strconv.ParseFloat(row[5], 64)
		sm.VY, errs[6] = strconv.ParseFloat(row[6], 64)
		sm.VZ, errs[7] = strconv.ParseFloat(row[7], 64)
		for _, e := range errs {
			if e != nil {
				return nil, fmt.Errorf("run %s: malformed row %v: %w", runID, row, e)
			}
		}
		sm.Supported = row[8] == "true"
		samples = append(samples, sm)
	}
	return samples, nil
}
