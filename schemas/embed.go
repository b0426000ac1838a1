// Package schemas bundles the JSON Schemas used to validate resume records and
// generated JSON Resume documents.
package schemas

import _ "embed"

// File names of the bundled schemas
const (
	ResumeFile     = "resume.schema.json"
	JSONResumeFile = "json_resume.schema.json"
)

//go:embed resume.schema.json
var Resume string

//go:embed json_resume.schema.json
var JSONResume string
