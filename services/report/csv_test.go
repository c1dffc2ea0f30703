package reportsvc_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/chamadasimples/chamada/core/attendance"
	reportsvc "github.com/chamadasimples/chamada/services/report"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("reading rendered CSV: %v", err)
	}
	return records
}

func TestWriteMonthlySummary(t *testing.T) {
	rows := []attendance.StudentSummary{
		{RollNumber: "01", Name: "Ana", Present: 20, Absent: 5, Total: 25},
		{RollNumber: "02", Name: "Bruno"},
	}

	var buf bytes.Buffer
	if err := reportsvc.WriteMonthlySummary(&buf, rows); err != nil {
		t.Fatalf("WriteMonthlySummary() failed: %v", err)
	}

	records := parseCSV(t, &buf)
	if len(records) != 3 {
		t.Fatalf("rendered %d lines, want 3", len(records))
	}
	if records[0][0] != "#" || records[0][5] != "% Freq." {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "Ana" || records[1][5] != "80.0%" {
		t.Errorf("Ana's row = %v, want frequency 80.0%%", records[1])
	}
	if records[2][5] != attendance.NoRecordMark {
		t.Errorf("Bruno's frequency = %q, want %q", records[2][5], attendance.NoRecordMark)
	}
}

func TestWriteAnnualMap(t *testing.T) {
	rows := []attendance.StudentSummary{
		{RollNumber: "01", Name: "Ana", Present: 180, Absent: 15, Justified: 5, Total: 200},
	}

	var buf bytes.Buffer
	if err := reportsvc.WriteAnnualMap(&buf, rows); err != nil {
		t.Fatalf("WriteAnnualMap() failed: %v", err)
	}

	records := parseCSV(t, &buf)
	want := []string{"01", "Ana", "180", "15", "5", "200", "90.0%"}
	if len(records) != 2 || len(records[1]) != len(want) {
		t.Fatalf("rendered %v, want one data row of %d columns", records, len(want))
	}
	for i, w := range want {
		if records[1][i] != w {
			t.Errorf("column %d = %q, want %q", i, records[1][i], w)
		}
	}
}

func TestWriteMonthlyGrid(t *testing.T) {
	grid := attendance.MonthlyGrid{
		ClassID: "c1",
		Month:   "2025-03",
		Days:    3,
		Rows: []attendance.GridRow{
			{
				StudentSummary: attendance.StudentSummary{RollNumber: "01", Name: "Ana", Present: 2, Absent: 1, Total: 3},
				Marks:          []string{"P", "F", "P"},
			},
		},
	}

	var buf bytes.Buffer
	if err := reportsvc.WriteMonthlyGrid(&buf, grid); err != nil {
		t.Fatalf("WriteMonthlyGrid() failed: %v", err)
	}

	records := parseCSV(t, &buf)
	if len(records[0]) != 6 { // #, name, 3 days, freq
		t.Fatalf("header has %d columns, want 6: %v", len(records[0]), records[0])
	}
	if records[0][2] != "1" || records[0][4] != "3" {
		t.Errorf("day columns = %v", records[0][2:5])
	}
	row := records[1]
	if row[2] != "P" || row[3] != "F" || row[4] != "P" {
		t.Errorf("marks = %v, want P F P", row[2:5])
	}
	if row[5] != "67%" {
		t.Errorf("frequency = %q, want \"67%%\"", row[5])
	}
}
