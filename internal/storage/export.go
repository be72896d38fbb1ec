package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/softbody/internal/dynamo"
)

type ExportData struct {
	Shape   string             `json:"shape"`
	Params  dynamo.Params      `json:"params"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	Frames  [][]dynamo.Point   `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames [][]dynamo.Point, times []float64) error {
	data := ExportData{
		Shape:   meta.Shape,
		Params:  meta.Params,
		Steps:   len(times),
		Times:   times,
		Frames:  frames,
		Metrics: meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteFramesCSV writes one row per recorded frame: the frame number, its time
// and the x, y of every particle.
func WriteFramesCSV(w io.Writer, frames [][]dynamo.Point, times []float64, every int) error {
	cw := csv.NewWriter(w)

	if len(frames) == 0 {
		cw.Flush()
		return cw.Error()
	}
	if every < 1 {
		every = 1
	}

	header := []string{"frame", "time"}
	for i := range frames[0] {
		header = append(header, fmt.Sprintf("p%dx", i), fmt.Sprintf("p%dy", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, frame := range frames {
		var t float64
		if i < len(times) {
			t = times[i]
		}
		row := []string{strconv.Itoa(i * every), strconv.FormatFloat(t, 'f', 6, 64)}
		for _, p := range frame {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
