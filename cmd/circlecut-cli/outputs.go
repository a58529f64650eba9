package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/piwi3910/CircleCut/internal/config"
	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/export"
	"github.com/piwi3910/CircleCut/internal/gcode"
	"github.com/piwi3910/CircleCut/internal/model"
)

// configSnapshotExt names the copy of the effective run config written next
// to the outputs.
const configSnapshotExt = "config.yaml"

func pack(settings model.PackSettings, logger *slog.Logger) model.PackingResult {
	opt := engine.New(settings)
	opt.Logger = logger
	result := opt.Optimize()
	logger.Info("packed",
		"count", result.Count,
		"efficiency", fmt.Sprintf("%.2f%%", result.Efficiency),
		"strategy", result.Strategy)
	return result
}

// extensions maps export format keys to the suffix after the base name.
var extensions = map[string]string{
	"png":    "png",
	"svg":    "svg",
	"dxf":    "dxf",
	"pdf":    "pdf",
	"labels": "labels.pdf",
	"csv":    "csv",
	"xlsx":   "xlsx",
	"gcode":  "gcode",
	"json":   "json",
}

// writeOutputs writes every selected format plus a snapshot of the run
// config. A failing format does not stop the others; all failures are
// joined into the returned error.
func writeOutputs(cfg *config.Config, job model.Job, logger *slog.Logger) ([]string, error) {
	if job.Result == nil {
		return nil, errors.New("job has no result")
	}
	result := *job.Result

	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	var errs []error
	for _, format := range config.SupportedFormats {
		if !cfg.WantsFormat(format) {
			continue
		}
		path := cfg.OutputPath(extensions[format])
		err := writeFormat(format, path, cfg, job, result)
		switch {
		case errors.Is(err, gcode.ErrNothingToCut):
			logger.Warn("skipping gcode", "reason", err)
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", format, err))
		default:
			written = append(written, path)
		}
	}

	snapshot := cfg.OutputPath(configSnapshotExt)
	if err := cfg.WriteYAML(snapshot); err != nil {
		errs = append(errs, err)
	} else {
		written = append(written, snapshot)
	}
	return written, errors.Join(errs...)
}

func writeFormat(format, path string, cfg *config.Config, job model.Job, result model.PackingResult) error {
	switch format {
	case "png":
		opts := export.DefaultPNGOptions()
		opts.Size = cfg.Export.PNGSize
		opts.ShowLabels = cfg.Export.Labels
		return export.ExportPNG(path, result, cfg.Pack, opts)
	case "svg":
		opts := export.DefaultSVGOptions()
		opts.UnitsPerMM = cfg.Export.SVGUnitsPerMM
		opts.ShowLabels = cfg.Export.Labels
		return export.ExportSVG(path, result, cfg.Pack, opts)
	case "dxf":
		return export.ExportDXF(path, result, cfg.Pack)
	case "pdf":
		return export.ExportPDF(path, result, cfg.Pack)
	case "labels":
		return export.ExportLabels(path, result, job.Name)
	case "csv":
		return export.ExportCSV(path, result)
	case "xlsx":
		return export.ExportXLSX(path, result, cfg.Pack)
	case "gcode":
		code, err := gcode.New(cfg.Cut).Generate(result)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(code), 0644)
	case "json":
		data, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal job: %w", err)
		}
		return os.WriteFile(path, data, 0644)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func printSummary(w io.Writer, settings model.PackSettings, result model.PackingResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Circle diameter\t%g mm\n", settings.CircleDiameter)
	fmt.Fprintf(tw, "Rectangle\t%g x %g mm\n", settings.RectWidth, settings.RectHeight)
	fmt.Fprintf(tw, "Tolerance / safe zone\t%g / %g mm\n", settings.Tolerance, settings.SafeZone)
	fmt.Fprintf(tw, "Rectangles placed\t%d\n", result.Count)
	fmt.Fprintf(tw, "Efficiency\t%.2f%%\n", result.Efficiency)
	fmt.Fprintf(tw, "Waste\t%.2f%%\n", result.Waste)
	if result.Strategy != "" {
		fmt.Fprintf(tw, "Strategy\t%s\n", result.Strategy)
	}

	counts := result.RotationCounts()
	rotations := make([]float64, 0, len(counts))
	for rot := range counts {
		rotations = append(rotations, rot)
	}
	sort.Float64s(rotations)
	for _, rot := range rotations {
		fmt.Fprintf(tw, "  at %g°\t%d\n", rot, counts[rot])
	}
	tw.Flush()
}

func printVerification(w io.Writer, v engine.Verification) {
	status := "PASSED"
	if !v.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(w, "\nVerification: %s\n", status)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Invalid rotations\t%d\n", len(v.InvalidRotations))
	fmt.Fprintf(tw, "Overlapping pairs\t%d\n", len(v.Overlaps))
	fmt.Fprintf(tw, "Clearance violations\t%d\n", len(v.ClearanceViolations))
	fmt.Fprintf(tw, "Out of bounds\t%d\n", len(v.OutOfBounds))
	fmt.Fprintf(tw, "Touching rectangles\t%d\n", v.Touching)
	fmt.Fprintf(tw, "Open edge slots\t%d\n", len(v.OpenSlots))
	if v.Count > 1 {
		fmt.Fprintf(tw, "Min clearance\t%.3f mm\n", v.MinClearance)
	}
	fmt.Fprintf(tw, "Max corner distance\t%.3f mm\n", v.MaxCornerDistance)
	tw.Flush()

	for _, o := range v.Overlaps {
		fmt.Fprintf(w, "  overlap: rectangles %d and %d (gap x %.3f, y %.3f)\n", o.I+1, o.J+1, o.GapX, o.GapY)
	}
	for _, b := range v.OutOfBounds {
		fmt.Fprintf(w, "  out of bounds: rectangle %d corner at %.3f mm (limit %.3f)\n", b.Index+1, b.Distance, b.Limit)
	}
}

func printComparison(w io.Writer, results []engine.ComparisonResult, best int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Scenario\tCount\tEfficiency\tValid\t")
	for i, r := range results {
		name := r.Scenario.Name
		if i == best {
			name = "* " + name
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%v\t\n", name, r.Count, r.Efficiency, r.Valid)
	}
	tw.Flush()
}

func printEstimate(w io.Writer, est model.BlankEstimate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Rectangles required\t%d\n", est.Required)
	fmt.Fprintf(tw, "Per blank\t%d\n", est.PerBlank)
	if est.PerBlank > 0 {
		fmt.Fprintf(tw, "Blanks (exact)\t%.2f\n", est.BlanksExact)
		fmt.Fprintf(tw, "Blanks (minimum)\t%d\n", est.BlanksMin)
		fmt.Fprintf(tw, "Blanks (+%g%% scrap)\t%d\n", est.LossPercent, est.BlanksWithLoss)
		fmt.Fprintf(tw, "Spare rectangles\t%d\n", est.Surplus)
		if est.PricePerBlank > 0 {
			fmt.Fprintf(tw, "Estimated cost\t%.2f\n", est.EstimatedCost)
		}
	}
	tw.Flush()
}
