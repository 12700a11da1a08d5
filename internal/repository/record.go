package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/logger"
)

var (
	ErrNoRecords         = errors.New("no valid records")
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported records format")
)

// columnAliases maps header names found in the wild to record fields.
var columnAliases = map[string][]string{
	"id":        {"id", "record_id"},
	"group":     {"group_id", "groupid", "group", "category", "relatedid", "related_id"},
	"subject":   {"subject", "work", "title", "question"},
	"agent":     {"agent", "author", "architect"},
	"attribute": {"attribute", "description", "explanation", "detail"},
}

// RecordRepository provides access to the quiz records.
// Records are loaded once from a CSV or YAML file and kept in memory.
type RecordRepository struct {
	records []entities.Record
}

// NewRecordRepository loads records from path. The format follows the file
// extension: .csv, .yaml or .yml.
func NewRecordRepository(path string, log logger.Logger) (*RecordRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	records, err := LoadRecords(f, filepath.Ext(path), log)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return NewRecordRepositoryFrom(records), nil
}

// NewRecordRepositoryFrom wraps already loaded records.
func NewRecordRepositoryFrom(records []entities.Record) *RecordRepository {
	return &RecordRepository{records: slices.Clone(records)}
}

// GetAll returns all records in file order.
func (r *RecordRepository) GetAll(_ context.Context) ([]entities.Record, error) {
	return slices.Clone(r.records), nil
}

// GetByID returns the record with the given ID.
func (r *RecordRepository) GetByID(_ context.Context, id int) (entities.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return entities.Record{}, entities.ErrRecordNotFound
}

// GetByGroup returns all records of a group.
func (r *RecordRepository) GetByGroup(_ context.Context, groupID int) ([]entities.Record, error) {
	var out []entities.Record
	for _, rec := range r.records {
		if rec.GroupID == groupID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// LoadRecords parses records in the given format (".csv", ".yaml", ".yml").
// Malformed rows and duplicate IDs are skipped and reported to log.
func LoadRecords(src io.Reader, format string, log logger.Logger) ([]entities.Record, error) {
	if log == nil {
		log = logger.Nop
	}

	var (
		records []entities.Record
		err     error
	)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "csv":
		records, err = ParseCSV(src, log)
	case "yaml", "yml":
		records, err = ParseYAML(src, log)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	records = dedupe(records, log)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	return records, nil
}

// ParseCSV reads a CSV file with a header row. Columns are matched by name
// (see columnAliases), so their order and extra columns do not matter.
func ParseCSV(src io.Reader, log logger.Logger) ([]entities.Record, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRecords
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []entities.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Log(fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		rec, err := parseRow(row, columns)
		if err != nil {
			log.Log(fmt.Sprintf("line %d skipped: %v", line, err))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				columns[field] = i
				break
			}
		}
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("%s: %w", field, ErrMissingColumn)
		}
	}

	return columns, nil
}

func parseRow(row []string, columns map[string]int) (entities.Record, error) {
	cell := func(field string) string {
		i := columns[field]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id, err := strconv.Atoi(cell("id"))
	if err != nil {
		return entities.Record{}, fmt.Errorf("invalid id %q", cell("id"))
	}

	groupID, err := strconv.Atoi(cell("group"))
	if err != nil {
		return entities.Record{}, fmt.Errorf("invalid group id %q", cell("group"))
	}

	rec := entities.Record{
		ID:        id,
		GroupID:   groupID,
		Subject:   cell("subject"),
		Agent:     cell("agent"),
		Attribute: cell("attribute"),
	}
	if !rec.Valid() {
		return entities.Record{}, errors.New("empty subject, agent or attribute")
	}

	return rec, nil
}

// ParseYAML reads records listed under a top-level "records" key.
func ParseYAML(src io.Reader, log logger.Logger) ([]entities.Record, error) {
	var wrapper struct {
		Records []entities.Record `yaml:"records"`
	}
	if err := yaml.NewDecoder(src).Decode(&wrapper); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRecords
		}
		return nil, fmt.Errorf("failed to unmarshal records YAML: %w", err)
	}

	records := make([]entities.Record, 0, len(wrapper.Records))
	for i, rec := range wrapper.Records {
		rec.Subject = strings.TrimSpace(rec.Subject)
		rec.Agent = strings.TrimSpace(rec.Agent)
		rec.Attribute = strings.TrimSpace(rec.Attribute)
		if !rec.Valid() {
			log.Log(fmt.Sprintf("record #%d (id %d) skipped: empty subject, agent or attribute", i+1, rec.ID))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// dedupe keeps the first record of each ID.
func dedupe(records []entities.Record, log logger.Logger) []entities.Record {
	seen := make(map[int]struct{}, len(records))
	out := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			log.Log(fmt.Sprintf("duplicate record id %d skipped", rec.ID))
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}
