package report

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func sampleReport() *Report {
	r := &Report{}
	r.Add(Verdict{Region: "CHINA", Check: "calculated USD", Passed: true, Expected: "105.67", Actual: "105.67"})
	r.Add(Verdict{Region: "EMEA", Check: "approver 1 status", Passed: false, Expected: "Auto", Actual: "Ready for Review"})
	return r
}

func TestReportCounts(t *testing.T) {
	r := sampleReport()
	if r.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", r.Failures())
	}
	if r.Passed() {
		t.Error("Passed() = true, want false")
	}

	other := &Report{}
	other.Add(Verdict{Region: "CHINA", Check: "stocking segment", Passed: true})
	r.Merge(other)
	if len(r.Verdicts) != 3 {
		t.Errorf("Merge() left %d verdicts, want 3", len(r.Verdicts))
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(sampleReport())
	})

	if !strings.Contains(output, "Region     | Result | Check") {
		t.Errorf("PrettyFormat missing table header")
	}
	if !strings.Contains(output, "PASS") || !strings.Contains(output, "FAIL") {
		t.Errorf("PrettyFormat missing verdict results")
	}
	if !strings.Contains(output, `expected "Auto", got "Ready for Review"`) {
		t.Errorf("PrettyFormat missing expected/actual diagnostics")
	}
	if !strings.Contains(output, "2 checks, 1 failed") {
		t.Errorf("PrettyFormat missing summary line")
	}
}

func TestCsvFormat(t *testing.T) {
	output := captureStdout(t, func() {
		CsvFormat(sampleReport())
	})

	if !strings.Contains(output, `"region","check","result","expected","actual"`) {
		t.Errorf("CsvFormat missing header row")
	}
	if !strings.Contains(output, `"EMEA","approver 1 status","FAIL","Auto","Ready for Review"`) {
		t.Errorf("CsvFormat missing failure row, got:\n%s", output)
	}
}

func TestMoney(t *testing.T) {
	if got := Money(1234567.891); got != "1,234,567.89" {
		t.Errorf("Money() = %q, want \"1,234,567.89\"", got)
	}
}
