// Package reportsvc renders the attendance read models as CSV documents.
// Layout is free; the values (roll number, name, per-day marks, counts,
// frequency) come straight from the aggregation contract.
package reportsvc

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

// WriteMonthlySummary renders the simple per-student summary for one month.
func WriteMonthlySummary(w io.Writer, rows []attendance.StudentSummary) error {
	cw := csv.NewWriter(w)
	header := []string{"#", "Nome do Aluno", "Presenças", "Ausências", "Justificativas", "% Freq."}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, row := range rows {
		rec := []string{
			row.RollNumber,
			row.Name,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Justified),
			row.Frequency(1),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing")
}

// WriteAnnualMap renders the final per-student map for one school year.
func WriteAnnualMap(w io.Writer, rows []attendance.StudentSummary) error {
	cw := csv.NewWriter(w)
	header := []string{"#", "Nome do Aluno", "Presenças", "Faltas", "Justificativas", "Total Dias", "% Final"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, row := range rows {
		rec := []string{
			row.RollNumber,
			row.Name,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Justified),
			strconv.Itoa(row.Total),
			row.Frequency(1),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing")
}

// WriteMonthlyGrid renders the day-by-day grid for one month: one column per
// day of month plus the whole-number frequency.
func WriteMonthlyGrid(w io.Writer, grid attendance.MonthlyGrid) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, grid.Days+3)
	header = append(header, "#", "Nome do Aluno")
	for day := 1; day <= grid.Days; day++ {
		header = append(header, strconv.Itoa(day))
	}
	header = append(header, "Freq %")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for _, row := range grid.Rows {
		rec := make([]string, 0, grid.Days+3)
		rec = append(rec, row.RollNumber, row.Name)
		rec = append(rec, row.Marks...)
		rec = append(rec, row.Frequency(0))
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing")
}
