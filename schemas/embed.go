// Package schemas embeds the JSON Schema documents for policy and record files.
package schemas

import "embed"

// Schema file names.
const (
	CoursePolicy      = "course_policy.schema.json"
	ExperienceRecords = "experience_records.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Load returns the raw bytes of a named schema.
func Load(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
