package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/softbody/internal/analysis"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
	"github.com/san-kum/softbody/internal/export"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/san-kum/softbody/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHAPE\tPRESET\tTIME\tFRAMES\tPARTICLES\tITER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Shape,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Params.Iterations,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func loadRun(runID string) (*storage.RunMetadata, [][]dynamo.Point, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, times, nil
}

// sampleRate is the number of recorded frames per simulated second.
func sampleRate(meta *storage.RunMetadata) float64 {
	every := meta.Every
	if every < 1 {
		every = 1
	}
	if meta.Dt <= 0 {
		return float64(config.DefaultFPS) / float64(every)
	}
	return 1 / (meta.Dt * float64(every))
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("shape: %s\n", meta.Shape)
	fmt.Printf("samples: %d\n\n", len(frames))

	heights := analysis.HeightSeries(frames, meta.Params.Height)
	com := analysis.CenterOfMassSeries(frames)
	comX := make([]float64, len(com))
	for i, p := range com {
		comX[i] = p.X
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{heights, "lowest particle height above floor"},
		{comX, "centre of mass x"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	rate := sampleRate(meta)
	report := analysis.Summarize(frames, times, meta.Params.Height, rate)

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("shape: %s\n\n", meta.Shape)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames:\t%d\n", report.Frames)
	fmt.Fprintf(w, "duration:\t%.2f s\n", report.Duration)
	fmt.Fprintf(w, "centre of mass:\t(%.1f, %.1f) -> (%.1f, %.1f)\n",
		report.StartCOM.X, report.StartCOM.Y, report.EndCOM.X, report.EndCOM.Y)
	fmt.Fprintf(w, "path length:\t%.1f\n", report.Displacement)
	fmt.Fprintf(w, "height range:\t%.1f .. %.1f\n", report.MinHeight, report.MaxHeight)
	fmt.Fprintf(w, "bounces:\t%d\n", report.Bounces)
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(analysis.HeightSeries(frames, meta.Params.Height))
	if len(ps) > 8 {
		plotData := ps[1 : len(ps)/4+1]
		fmt.Println()
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (height)"),
		))
		fmt.Println()
	}

	fmt.Printf("dominant frequency: %.3f hz\n", report.DominantHz)
	if report.DominantHz > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/report.DominantHz)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames, times)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, frames, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames, times, meta.Every)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if trajectory {
		svg = export.TrajectoryToSVG(analysis.CenterOfMassSeries(frames), int(meta.Params.Width), int(meta.Params.Height), "#e0e0e0")
	} else {
		idx := frameIdx
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range (run has %d frames)", frameIdx, len(frames))
		}
		points := frames[idx]
		segs := runSegments(meta, points)
		if braille {
			proj := viz.NewProjection(meta.Params.Width, meta.Params.Height, 24)
			canvas := viz.NewCanvas(proj.Cols, proj.Rows)
			viz.Render(canvas, proj, points, segs)
			svg = export.CanvasToSVG(canvas, 4)
		} else {
			svg = export.FrameToSVG(points, segs, meta.Params.Width, meta.Params.Height)
		}
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	_, err = io.WriteString(out, svg)
	return err
}

// runSegments rebuilds the links of a stored run from its shape and preset.
// Runs whose body no longer matches are drawn without links.
func runSegments(meta *storage.RunMetadata, points []dynamo.Point) []dynamo.Segment {
	cfg := config.GetPreset(meta.Shape, meta.Preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Body.Shape = meta.Shape
	}

	topo, err := experiment.NewRegistry().GetBody(cfg.Body.Shape, cfg.Body)
	if err != nil {
		logger.Printf("links unavailable: %v", err)
		return nil
	}
	s, err := dynamo.NewFromTopology(meta.Params, topo)
	if err != nil || s.Len() != len(points) {
		logger.Printf("links unavailable for %s", meta.ID)
		return nil
	}
	return export.SegmentsFor(s, points)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
