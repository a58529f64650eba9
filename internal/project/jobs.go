package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CircleCut/internal/model"
)

// JobExtension is the file extension for saved jobs.
const JobExtension = ".circlecut"

// SaveJob writes a job, including its last result if any, as JSON.
// The extension is added when missing.
func SaveJob(path string, job model.Job) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), JobExtension) {
		path += JobExtension
	}
	if err := writeJSON(path, job); err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}
	return path, nil
}

// LoadJob reads a job file. A missing ID is filled in so older files stay usable.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to read job file: %w", err)
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.ID == "" {
		fresh := model.NewJob(job.Name, job.Settings)
		job.ID = fresh.ID
		if job.Name == "" {
			job.Name = fresh.Name
		}
	}
	if job.Result != nil && job.Result.Count != len(job.Result.Rectangles) {
		return model.Job{}, fmt.Errorf("job file is inconsistent: count %d but %d rectangles",
			job.Result.Count, len(job.Result.Rectangles))
	}
	return job, nil
}
