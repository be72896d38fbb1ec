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

	"github.com/san-kum/softbody/internal/dynamo"
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
	ID          string             `json:"id"`
	Shape       string             `json:"shape"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Params      dynamo.Params      `json:"params"`
	Frames      int                `json:"frames"`
	Every       int                `json:"every"`
	Dt          float64            `json:"dt"`
	Particles   int                `json:"particles"`
	Constraints int                `json:"constraints"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

// Save writes metadata.json and frames.csv under a new run directory. ID,
// Timestamp, Metrics and Errors of meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Shape, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Metrics = result.Metrics
	meta.Errors = nil
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}
	if meta.Every < 1 {
		meta.Every = 1
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

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames, result.Times, meta.Every); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads the recorded particle positions and their times.
func (s *Store) LoadFrames(runID string) ([][]dynamo.Point, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]dynamo.Point{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	frames := make([][]dynamo.Point, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		coords := record[2:]
		frame := make([]dynamo.Point, 0, len(coords)/2)
		for j := 0; j+1 < len(coords); j += 2 {
			x, errX := strconv.ParseFloat(coords[j], 64)
			y, errY := strconv.ParseFloat(coords[j+1], 64)
			if errX != nil || errY != nil {
				continue
			}
			frame = append(frame, dynamo.Point{X: x, Y: y})
		}

		times = append(times, t)
		frames = append(frames, frame)
	}

	return frames, times, nil
}
