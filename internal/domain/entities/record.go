// Package entities contains domain entities used across the application.
package entities

import (
	"errors"
	"strings"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is one fact row from the source data: a work (subject), the person
// behind it (agent) and one attribute of it. GroupID clusters related records
// and is used to pick plausible wrong answers.
type Record struct {
	ID        int    `json:"id" yaml:"id"`               // unique record ID
	GroupID   int    `json:"group_id" yaml:"group_id"`   // clustering key for related records
	Subject   string `json:"subject" yaml:"subject"`     // work, building or plan
	Agent     string `json:"agent" yaml:"agent"`         // author or architect
	Attribute string `json:"attribute" yaml:"attribute"` // descriptive attribute, e.g. "designed in 1900"
}

// Valid reports whether all text fields of the record are present.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Subject) != "" &&
		strings.TrimSpace(r.Agent) != "" &&
		strings.TrimSpace(r.Attribute) != ""
}

// Field returns the value of the given field.
func (r Record) Field(f Field) string {
	switch f {
	case FieldSubject:
		return r.Subject
	case FieldAgent:
		return r.Agent
	case FieldAttribute:
		return r.Attribute
	default:
		return ""
	}
}

// With returns a copy of the record with field f replaced by value.
func (r Record) With(f Field, value string) Record {
	switch f {
	case FieldSubject:
		r.Subject = value
	case FieldAgent:
		r.Agent = value
	case FieldAttribute:
		r.Attribute = value
	}
	return r
}

// Field names one of the text fields of a Record.
type Field string

const (
	FieldNone      Field = ""
	FieldSubject   Field = "subject"
	FieldAgent     Field = "agent"
	FieldAttribute Field = "attribute"
)

// TextFields lists the fields a question can be built around.
var TextFields = []Field{FieldSubject, FieldAgent, FieldAttribute}
