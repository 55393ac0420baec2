package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestBatchReader_CSV(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"name,technique,tp,fp,tn,fn,confidence",
		"Run 1,PCR,85,3,92,5,0.95",
		"Run 2,LAMP,80,8,87,10,0.99",
	}, "\n"))

	result, err := NewBatchReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(result.Experiments) != 2 {
		t.Fatalf("got %d experiments, want 2", len(result.Experiments))
	}
	if len(result.RowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", result.RowErrors)
	}

	first := result.Experiments[0]
	if first.Name != "Run 1" {
		t.Errorf("name = %q, want %q", first.Name, "Run 1")
	}
	if first.Technique.String() != "PCR" {
		t.Errorf("technique = %q, want PCR", first.Technique)
	}
	if first.Counts.TP != 85 || first.Counts.FP != 3 || first.Counts.TN != 92 || first.Counts.FN != 5 {
		t.Errorf("counts = %+v", first.Counts)
	}
	if result.Experiments[1].ConfidenceLevel != 0.99 {
		t.Errorf("confidence = %g, want 0.99", result.Experiments[1].ConfidenceLevel)
	}
}

func TestBatchReader_HeaderAliases(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"Experiment_Name,Method,True_Positive,False_Positive,True_Negative,False_Negative",
		"Aliased,qpcr,10,1,12,2",
	}, "\n"))

	result, err := NewBatchReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Experiments) != 1 {
		t.Fatalf("got %d experiments, want 1 (errors: %v)", len(result.Experiments), result.RowErrors)
	}

	exp := result.Experiments[0]
	// Technique keys are normalized to upper case
	if exp.Technique.String() != "QPCR" {
		t.Errorf("technique = %q, want QPCR", exp.Technique)
	}
	// Confidence column absent: default applies
	if exp.ConfidenceLevel != 0.95 {
		t.Errorf("confidence = %g, want 0.95", exp.ConfidenceLevel)
	}
}

func TestBatchReader_BadRowsReportedNotFatal(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"name,technique,tp,fp,tn,fn",
		"Good,PCR,85,3,92,5",
		"Bad counts,PCR,-1,3,92,5",
		"Bad number,PCR,abc,3,92,5",
		",PCR,1,1,1,1",
		"Also good,LAMP,80,8,87,10",
	}, "\n"))

	result, err := NewBatchReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(result.Experiments) != 2 {
		t.Errorf("got %d experiments, want 2", len(result.Experiments))
	}
	if len(result.RowErrors) != 3 {
		t.Fatalf("got %d row errors, want 3: %v", len(result.RowErrors), result.RowErrors)
	}
	// Row numbers are 1-based file positions
	if result.RowErrors[0].Row != 3 {
		t.Errorf("first error row = %d, want 3", result.RowErrors[0].Row)
	}
}

func TestBatchReader_MissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"name,technique,tp,fp,tn",
		"Incomplete,PCR,85,3,92",
	}, "\n"))

	_, err := NewBatchReader(path).Read()
	if err == nil || !strings.Contains(err.Error(), "fn") {
		t.Errorf("error = %v, want missing-column error naming fn", err)
	}
}

func TestBatchReader_SkipsEmptyRows(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"name,technique,tp,fp,tn,fn",
		"Run,PCR,85,3,92,5",
		",,,,,",
	}, "\n"))

	result, err := NewBatchReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Experiments) != 1 || len(result.RowErrors) != 0 {
		t.Errorf("experiments=%d errors=%v, want 1 and none", len(result.Experiments), result.RowErrors)
	}
}

func TestBatchReader_FileMissing(t *testing.T) {
	_, err := NewBatchReader(filepath.Join(t.TempDir(), "nope.csv")).Read()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBatchReader_WholeNumberFloats(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"name,technique,tp,fp,tn,fn",
		"Floaty,PCR,85.0,3.0,92.0,5.0",
	}, "\n"))

	result, err := NewBatchReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Experiments) != 1 {
		t.Fatalf("got %d experiments (errors: %v), want 1", len(result.Experiments), result.RowErrors)
	}
	if result.Experiments[0].Counts.TP != 85 {
		t.Errorf("tp = %d, want 85", result.Experiments[0].Counts.TP)
	}
}
