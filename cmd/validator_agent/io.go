package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/experience-validator/internal/schemas"
	"github.com/jonathan/experience-validator/internal/types"
)

const dayLayout = "2006-01-02"

// parseNow returns the reference date for open-ended experiences.
// An empty value means today.
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(dayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err := w.Write(jsonBytes)
		return err
	}
	return writeFile(path, jsonBytes)
}

func writeFile(path string, data []byte) error {
	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// loadPolicy reads a course policy file and checks it against the bundled schema.
func loadPolicy(path string) (types.CoursePolicy, error) {
	var policy types.CoursePolicy
	if path == "" {
		return policy, errors.New("a policy file is required (--policy or default_policy in the config)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := schemas.ValidatePolicy(data); err != nil {
		return policy, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to unmarshal policy JSON: %w", err)
	}
	return policy, nil
}

// loadRecords reads an experience records file and checks it against the bundled schema.
func loadRecords(path string) ([]types.ExperienceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	if err := schemas.ValidateRecords(data); err != nil {
		return nil, fmt.Errorf("invalid records %s: %w", path, err)
	}
	var records []types.ExperienceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records JSON: %w", err)
	}
	return records, nil
}
