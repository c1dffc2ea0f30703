package attendance

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chamadasimples/chamada/core"
)

var (
	monthRegex  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	periodRegex = regexp.MustCompile(`^\d{4}(-(0[1-9]|1[0-2]))?$`)
)

// summaryQuery and gridQuery carry the report parameters through the
// validator so the custom period/month tags apply.
type (
	summaryQuery struct {
		Period string `json:"period" validate:"required,period"`
	}
	gridQuery struct {
		Month string `json:"month" validate:"required,month"`
	}
)

func validPeriod(period string) error {
	return core.Validate.Struct(&summaryQuery{Period: period})
}

func validMonth(month string) error {
	return core.Validate.Struct(&gridQuery{Month: month})
}

// StudentSummary aggregates one student's records within a period.
type StudentSummary struct {
	StudentID  string `json:"studentId"`
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Justified  int    `json:"justified"`
	Total      int    `json:"total"`
}

// Percent returns the frequency percentage (present/total*100).
// ok is false when the period holds no records: there is no frequency then,
// not a zero one.
func (ss StudentSummary) Percent() (float64, bool) {
	if ss.Total == 0 {
		return 0, false
	}
	return float64(ss.Present) / float64(ss.Total) * 100, true
}

// Frequency formats Percent with the given number of decimals, or the
// no-data mark when the period holds no records.
func (ss StudentSummary) Frequency(decimals int) string {
	p, ok := ss.Percent()
	if !ok {
		return NoRecordMark
	}
	return strconv.FormatFloat(p, 'f', decimals, 64) + "%"
}

// GridRow is one student's line in the monthly detailed grid: one mark per
// day of month plus the summary counts.
type GridRow struct {
	StudentSummary
	Marks []string `json:"marks"` // Marks[i] is day i+1
}

// MonthlyGrid is the detailed day-by-day read model for one class and month.
type MonthlyGrid struct {
	ClassID string    `json:"classId"`
	Month   string    `json:"month"` // "YYYY-MM"
	Days    int       `json:"days"`
	Rows    []GridRow `json:"rows"`
}

// ClassSummary aggregates attendance per student of a class over a period:
// a month ("YYYY-MM") or a year ("YYYY"). Rows follow roster name order.
func (s *Store) ClassSummary(classID, period string) ([]StudentSummary, error) {
	if err := validPeriod(period); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.class(classID); err != nil {
		return nil, err
	}

	rows := make([]StudentSummary, 0)
	for _, st := range s.roster(classID) {
		row := StudentSummary{StudentID: st.ID, RollNumber: st.RollNumber, Name: st.Name}
		for _, r := range s.db.Attendance {
			if r.StudentID != st.ID || !strings.HasPrefix(r.Date, period) {
				continue
			}
			switch r.Status {
			case StatusPresent:
				row.Present++
			case StatusAbsent:
				row.Absent++
			case StatusJustified:
				row.Justified++
			}
			row.Total++
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MonthlyGrid builds the day-by-day status grid for one class and month.
// Days without a record carry the no-record mark.
func (s *Store) MonthlyGrid(classID, month string) (MonthlyGrid, error) {
	if err := validMonth(month); err != nil {
		return MonthlyGrid{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.class(classID); err != nil {
		return MonthlyGrid{}, err
	}

	days := daysInMonth(month)
	grid := MonthlyGrid{ClassID: classID, Month: month, Days: days, Rows: make([]GridRow, 0)}
	for _, st := range s.roster(classID) {
		row := GridRow{
			StudentSummary: StudentSummary{StudentID: st.ID, RollNumber: st.RollNumber, Name: st.Name},
			Marks:          make([]string, days),
		}
		byDate := make(map[string]Status)
		for _, r := range s.db.Attendance {
			if r.StudentID != st.ID || !strings.HasPrefix(r.Date, month) {
				continue
			}
			byDate[r.Date] = r.Status
			switch r.Status {
			case StatusPresent:
				row.Present++
			case StatusAbsent:
				row.Absent++
			case StatusJustified:
				row.Justified++
			}
			row.Total++
		}
		for day := 1; day <= days; day++ {
			date := month + "-" + pad2(day)
			if status, ok := byDate[date]; ok {
				row.Marks[day-1] = status.Char()
			} else {
				row.Marks[day-1] = NoRecordMark
			}
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}

func daysInMonth(month string) int {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0
	}
	return t.AddDate(0, 1, -1).Day()
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
