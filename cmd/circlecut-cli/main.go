// Package main is the headless CircleCut command line: it packs rectangles
// into a circle from flags or a YAML run config and writes the selected
// exports.
//
// Usage:
//
//	circlecut-cli run     [-config run.yaml] [-diameter 100 -width 15 -height 10 ...]
//	circlecut-cli verify  [same flags]       exits 1 when the layout fails the audit
//	circlecut-cli compare [same flags]       what-if scenarios side by side
//	circlecut-cli batch   -in jobs.csv|jobs.xlsx|- [-delim ";"] [-config run.yaml]
//	circlecut-cli export  -job saved.circlecut [-config run.yaml]
//	circlecut-cli estimate -required 500 [-loss 5] [-price 2.5] [same flags]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/piwi3910/CircleCut/internal/config"
)

// errVerifyFailed makes verify exit non-zero without printing a second error.
var errVerifyFailed = errors.New("verification failed")

func usage() {
	fmt.Fprintln(os.Stderr, `usage: circlecut-cli <command> [flags]

commands:
  run       pack the circle and write the configured exports
  verify    pack and audit the layout (exit 1 on failure)
  compare   pack what-if scenarios and print a comparison table
  batch     pack every job in a CSV or XLSX file
  export    re-export a saved job file
  estimate  compute how many blanks a required quantity needs

run "circlecut-cli <command> -h" for the flags of a command`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "run":
		err = runCmd(args)
	case "verify":
		err = verifyCmd(args)
	case "compare":
		err = compareCmd(args)
	case "batch":
		err = batchCmd(args)
	case "export":
		err = exportCmd(args)
	case "estimate":
		err = estimateCmd(args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	switch {
	case errors.Is(err, errVerifyFailed):
		os.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every command that packs a circle. Values set
// on the command line override the run config.
type commonFlags struct {
	fs *flag.FlagSet

	configPath string
	diameter   float64
	width      float64
	height     float64
	tolerance  float64
	safeZone   float64
	outDir     string
	name       string
	formats    string
	profile    string
	verbose    bool
}

func newCommonFlags(name string) *commonFlags {
	c := &commonFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.StringVar(&c.configPath, "config", "", "Run config YAML file (empty = use defaults)")
	c.fs.Float64Var(&c.diameter, "diameter", 0, "Circle diameter in mm")
	c.fs.Float64Var(&c.width, "width", 0, "Rectangle width in mm")
	c.fs.Float64Var(&c.height, "height", 0, "Rectangle height in mm")
	c.fs.Float64Var(&c.tolerance, "tolerance", 0, "Minimum clearance between rectangles in mm")
	c.fs.Float64Var(&c.safeZone, "safe-zone", 0, "Minimum clearance from the circle edge in mm")
	c.fs.StringVar(&c.outDir, "out", "", "Output directory (overrides export.dir)")
	c.fs.StringVar(&c.name, "name", "", "Base name of output files (overrides export.name)")
	c.fs.StringVar(&c.formats, "formats", "", "Comma separated export formats: "+strings.Join(config.SupportedFormats, ","))
	c.fs.StringVar(&c.profile, "profile", "", "GCode profile name (overrides cut.gcode_profile)")
	c.fs.BoolVar(&c.verbose, "v", false, "Debug logging")
	return c
}

// load reads the run config and applies every flag that was set explicitly.
func (c *commonFlags) load() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "diameter":
			cfg.Pack.CircleDiameter = c.diameter
		case "width":
			cfg.Pack.RectWidth = c.width
		case "height":
			cfg.Pack.RectHeight = c.height
		case "tolerance":
			cfg.Pack.Tolerance = c.tolerance
		case "safe-zone":
			cfg.Pack.SafeZone = c.safeZone
		case "out":
			cfg.Export.Dir = c.outDir
		case "name":
			cfg.Export.Name = c.name
		case "formats":
			cfg.Export.Formats = splitFormats(c.formats)
		case "profile":
			cfg.Cut.GCodeProfile = c.profile
		case "v":
			if c.verbose {
				cfg.LogLevel = "debug"
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// newLogger builds the stderr text logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
