package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CircleCut/internal/engine"
	"github.com/piwi3910/CircleCut/internal/export"
	jobimporter "github.com/piwi3910/CircleCut/internal/importer"
	"github.com/piwi3910/CircleCut/internal/model"
	"github.com/piwi3910/CircleCut/internal/project"
)

// parse parses args and treats -h as a clean exit.
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func runCmd(args []string) error {
	flags := newCommonFlags("run")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	result := pack(cfg.Pack, logger)
	printSummary(os.Stdout, cfg.Pack, result)

	job := model.NewJob(cfg.Export.Name, cfg.Pack)
	job.Result = &result
	written, err := writeOutputs(cfg, job, logger)
	for _, path := range written {
		fmt.Println("wrote", path)
	}
	return err
}

func verifyCmd(args []string) error {
	flags := newCommonFlags("verify")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	result := pack(cfg.Pack, logger)
	v := engine.Verify(result, cfg.Pack)
	logger.Debug("verification", "report", v)

	printSummary(os.Stdout, cfg.Pack, result)
	printVerification(os.Stdout, v)
	if !v.Passed() {
		return errVerifyFailed
	}
	return nil
}

func compareCmd(args []string) error {
	flags := newCommonFlags("compare")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	scenarios := engine.BuildDefaultScenarios(cfg.Pack)
	logger.Debug("comparing scenarios", "count", len(scenarios))
	results := engine.CompareScenarios(scenarios)
	printComparison(os.Stdout, results, engine.BestScenario(results))
	return nil
}

func batchCmd(args []string) error {
	flags := newCommonFlags("batch")
	in := flags.fs.String("in", "", "CSV, TSV or XLSX file with one job per row, - for stdin (required)")
	delim := flags.fs.String("delim", ",", "Field delimiter when reading stdin")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	imported, err := importJobs(*in, *delim)
	if err != nil {
		return err
	}
	for _, w := range imported.Warnings {
		logger.Warn("import", "warning", w)
	}
	for _, e := range imported.Errors {
		logger.Error("import", "error", e)
	}
	if len(imported.Jobs) == 0 {
		return fmt.Errorf("no jobs imported from %s", *in)
	}

	var errs []error
	seen := make(map[string]int)
	for _, job := range imported.Jobs {
		jobCfg := *cfg
		jobCfg.Pack = job.Settings
		jobCfg.Export.Name = uniqueStem(seen, export.FileStem(job.Name))

		result := pack(job.Settings, logger.With("job", job.Name))
		job.Result = &result
		fmt.Printf("%-24s %4d rectangles  %6.2f%%\n", job.Name, result.Count, result.Efficiency)

		written, err := writeOutputs(&jobCfg, job, logger.With("job", job.Name))
		for _, path := range written {
			logger.Info("wrote", "path", path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	if len(imported.Errors) > 0 {
		errs = append(errs, fmt.Errorf("%d rows could not be imported", len(imported.Errors)))
	}
	return errors.Join(errs...)
}

// importJobs reads a job list from path, or from stdin when path is "-".
// File input sniffs its delimiter; stdin uses delim, where "tab" and "\t"
// both mean a tab.
func importJobs(path, delim string) (jobimporter.ImportResult, error) {
	if path != "-" {
		return jobimporter.ImportFile(path), nil
	}
	if delim == "tab" || delim == `\t` {
		delim = "\t"
	}
	r := []rune(delim)
	if len(r) != 1 {
		return jobimporter.ImportResult{}, fmt.Errorf("-delim must be a single character, got %q", delim)
	}
	return jobimporter.ImportCSVFromReader(os.Stdin, r[0]), nil
}

// uniqueStem appends -2, -3, ... to repeated stems so batch outputs do not
// overwrite each other.
func uniqueStem(seen map[string]int, stem string) string {
	seen[stem]++
	if n := seen[stem]; n > 1 {
		return fmt.Sprintf("%s-%d", stem, n)
	}
	return stem
}

func exportCmd(args []string) error {
	flags := newCommonFlags("export")
	jobPath := flags.fs.String("job", "", "Saved job file (required)")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	if *jobPath == "" {
		return errors.New("-job is required")
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	job, err := project.LoadJob(*jobPath)
	if err != nil {
		return err
	}
	if err := job.Settings.Validate(); err != nil {
		return fmt.Errorf("job %s: %w", *jobPath, err)
	}
	cfg.Pack = job.Settings
	if !flagSet(flags.fs, "name") {
		cfg.Export.Name = strings.TrimSuffix(filepath.Base(*jobPath), filepath.Ext(*jobPath))
	}
	if job.Result == nil {
		logger.Info("job has no stored result, packing it")
		result := pack(job.Settings, logger)
		job.Result = &result
	}

	printSummary(os.Stdout, job.Settings, *job.Result)
	written, err := writeOutputs(cfg, job, logger)
	for _, path := range written {
		fmt.Println("wrote", path)
	}
	return err
}

func estimateCmd(args []string) error {
	flags := newCommonFlags("estimate")
	required := flags.fs.Int("required", 0, "Number of rectangles needed (required)")
	loss := flags.fs.Float64("loss", 5, "Scrap allowance in percent")
	price := flags.fs.Float64("price", 0, "Price per blank (0 = no cost line)")
	if ok, err := parse(flags.fs, args); !ok {
		return err
	}
	if *required <= 0 {
		return errors.New("-required must be > 0")
	}
	if *loss < 0 || *price < 0 {
		return errors.New("-loss and -price must be >= 0")
	}
	cfg, err := flags.load()
	if err != nil {
		return err
	}

	result := pack(cfg.Pack, newLogger(cfg))
	est := model.EstimateBlanks(*required, result.Count, *loss, *price)
	printEstimate(os.Stdout, est)
	if est.PerBlank == 0 {
		return errors.New("no rectangle fits on the blank")
	}
	return nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
