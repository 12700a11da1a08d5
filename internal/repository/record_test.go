package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) Log(message string) { c.lines = append(c.lines, message) }

func TestParseCSVColumnAliases(t *testing.T) {
	input := "\ufeffExplanation,Work,Architect,RelatedId,ID,notes\n" +
		"\"glass house, Plano\",Farnsworth House,Mies,3,9,ignored\n" +
		"concrete church,Church of the Light,Ando,7,18,\n"

	records, err := LoadRecords(strings.NewReader(input), ".csv", nil)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}

	want := []entities.Record{
		{ID: 9, GroupID: 3, Subject: "Farnsworth House", Agent: "Mies", Attribute: "glass house, Plano"},
		{ID: 18, GroupID: 7, Subject: "Church of the Light", Agent: "Ando", Attribute: "concrete church"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	input := "id,group_id,subject,agent,attribute\n" +
		"1,1,A,X,a\n" +
		"two,1,B,Y,b\n" +
		"3,,C,Z,c\n" +
		"4,1,,W,d\n" +
		"5,1,E\n" +
		"1,2,Duplicate,V,e\n" +
		"6,2,F,U,f\n"

	log := &captureLogger{}
	records, err := LoadRecords(strings.NewReader(input), "csv", log)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}

	if len(records) != 2 || records[0].ID != 1 || records[1].ID != 6 {
		t.Fatalf("records = %+v, want IDs 1 and 6", records)
	}
	if records[0].Subject != "A" {
		t.Fatalf("duplicate ID replaced the first record: %+v", records[0])
	}
	if len(log.lines) != 5 {
		t.Fatalf("logged %d lines, want 5: %v", len(log.lines), log.lines)
	}
}

func TestParseCSVReturnsReadErrors(t *testing.T) {
	errDisk := errors.New("disk gone")
	src := io.MultiReader(
		strings.NewReader("id,group_id,subject,agent,attribute\n1,1,A,X,a\n"),
		iotest.ErrReader(errDisk),
	)

	log := &captureLogger{}
	records, err := ParseCSV(src, log)
	if !errors.Is(err, errDisk) {
		t.Fatalf("err = %v, want %v", err, errDisk)
	}
	if records != nil {
		t.Fatalf("records = %+v, want nil", records)
	}
	if len(log.lines) != 0 {
		t.Fatalf("read error was logged as a skipped row: %v", log.lines)
	}

	_, err = LoadRecords(iotest.ErrReader(errDisk), ".csv", nil)
	if !errors.Is(err, errDisk) {
		t.Fatalf("header read: err = %v, want %v", err, errDisk)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := LoadRecords(strings.NewReader("id,subject,agent,attribute\n1,A,X,a\n"), ".csv", nil)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestLoadRecordsEmpty(t *testing.T) {
	for _, input := range []string{"", "id,group_id,subject,agent,attribute\n"} {
		if _, err := LoadRecords(strings.NewReader(input), ".csv", nil); !errors.Is(err, ErrNoRecords) {
			t.Fatalf("LoadRecords(%q): err = %v, want ErrNoRecords", input, err)
		}
	}
}

func TestLoadRecordsUnsupportedFormat(t *testing.T) {
	if _, err := LoadRecords(strings.NewReader("{}"), ".json", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
records:
  - id: 1
    group_id: 4
    subject: " Dancing House "
    agent: Gehry
    attribute: office in Prague
  - id: 2
    group_id: 4
    subject: Guggenheim Bilbao
    agent: ""
    attribute: titanium museum
`
	log := &captureLogger{}
	records, err := LoadRecords(strings.NewReader(input), ".yaml", log)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}

	want := entities.Record{ID: 1, GroupID: 4, Subject: "Dancing House", Agent: "Gehry", Attribute: "office in Prague"}
	if len(records) != 1 || records[0] != want {
		t.Fatalf("records = %+v, want [%+v]", records, want)
	}
	if len(log.lines) != 1 {
		t.Fatalf("logged %v, want one skipped record", log.lines)
	}
}

func TestRecordRepositoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	data := "id,group,subject,agent,attribute\n1,1,A,X,a\n2,1,B,Y,b\n3,2,C,Z,c\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := NewRecordRepository(path, nil)
	if err != nil {
		t.Fatalf("NewRecordRepository: %v", err)
	}
	ctx := context.Background()

	all, _ := repo.GetAll(ctx)
	if len(all) != 3 {
		t.Fatalf("GetAll returned %d records", len(all))
	}

	rec, err := repo.GetByID(ctx, 2)
	if err != nil || rec.Subject != "B" {
		t.Fatalf("GetByID(2) = (%+v, %v)", rec, err)
	}
	if _, err := repo.GetByID(ctx, 9); !errors.Is(err, entities.ErrRecordNotFound) {
		t.Fatalf("GetByID(9): err = %v", err)
	}

	group, _ := repo.GetByGroup(ctx, 1)
	if len(group) != 2 {
		t.Fatalf("GetByGroup(1) returned %d records", len(group))
	}

	// Callers get copies.
	all[0].Subject = "changed"
	if again, _ := repo.GetAll(ctx); again[0].Subject != "A" {
		t.Fatal("GetAll exposes internal state")
	}
}

func TestNewRecordRepositoryMissingFile(t *testing.T) {
	if _, err := NewRecordRepository(filepath.Join(t.TempDir(), "missing.csv"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestSampleDataLoads(t *testing.T) {
	for _, name := range []string{"questions.csv", "questions.yaml"} {
		repo, err := NewRecordRepository(filepath.Join("..", "..", "assets", "data", name), nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if all, _ := repo.GetAll(context.Background()); len(all) == 0 {
			t.Fatalf("%s: no records", name)
		}
	}
}
