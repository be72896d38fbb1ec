package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/softbody/internal/dynamo"
)

func testResult() *dynamo.Result {
	return &dynamo.Result{
		Frames: [][]dynamo.Point{
			{{X: 300, Y: 100}, {X: 400, Y: 100}},
			{{X: 300, Y: 100.5}, {X: 400, Y: 100.5}},
		},
		Times:   []float64{0.0, 0.5},
		Metrics: map[string]float64{"energy": 1.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := testResult()
	result.Errors = []error{errors.New("frame 2: invalid state")}

	runID, err := st.Save(RunMetadata{Shape: "box", Params: dynamo.DefaultParams(), Frames: 1, Every: 2}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "box_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Shape != "box" {
		t.Errorf("expected shape 'box', got '%s'", meta.Shape)
	}
	if meta.Params != dynamo.DefaultParams() {
		t.Errorf("params not round-tripped: %+v", meta.Params)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if len(meta.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %v", meta.Errors)
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 frames, got %d frames and %d times", len(frames), len(times))
	}
	if frames[1][1] != (dynamo.Point{X: 400, Y: 100.5}) {
		t.Errorf("unexpected point %+v", frames[1][1])
	}
	if times[1] != 0.5 {
		t.Errorf("expected time 0.5, got %f", times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Shape: "chain"}, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Shape != "chain" {
		t.Errorf("expected 1 chain run, got %+v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Shape: "box"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteFramesCSV(t *testing.T) {
	var buf bytes.Buffer
	r := testResult()
	if err := WriteFramesCSV(&buf, r.Frames, r.Times, 5); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "frame,time,p0x,p0y,p1x,p1y" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "5,0.500000,") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := testResult()
	meta := &RunMetadata{Shape: "box", Metrics: r.Metrics}

	if err := ExportJSON(&buf, meta, r.Frames, r.Times); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 2 || len(data.Frames) != 2 || data.Shape != "box" {
		t.Errorf("unexpected export %+v", data)
	}
}
