package attendance_test

import (
	"fmt"
	"testing"

	"github.com/chamadasimples/chamada/core/attendance"
	"github.com/chamadasimples/chamada/tests"
)

// markDays records the given status for one student over days first..last of month.
func markDays(t *testing.T, store *attendance.Store, classID, studentID, month string, first, last int, status attendance.Status) {
	t.Helper()
	for day := first; day <= last; day++ {
		date := fmt.Sprintf("%s-%02d", month, day)
		testutil.SaveDay(t, store, classID, date, []attendance.RecordEntry{
			{StudentID: studentID, Status: status},
		})
	}
}

func TestStore_ClassSummary(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")
	ana := testutil.CreateStudent(t, store, cls.ID, "Ana")
	testutil.CreateStudent(t, store, cls.ID, "Bruno") // never recorded

	markDays(t, store, cls.ID, ana.ID, "2025-03", 1, 20, attendance.StatusPresent)
	markDays(t, store, cls.ID, ana.ID, "2025-03", 21, 25, attendance.StatusAbsent)
	markDays(t, store, cls.ID, ana.ID, "2025-04", 1, 2, attendance.StatusJustified)

	t.Run("month", func(t *testing.T) {
		rows, err := store.ClassSummary(cls.ID, "2025-03")
		if err != nil {
			t.Fatalf("ClassSummary() failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("ClassSummary() returned %d rows, want 2", len(rows))
		}

		got := rows[0]
		if got.Present != 20 || got.Absent != 5 || got.Justified != 0 || got.Total != 25 {
			t.Errorf("Ana's counts = %d/%d/%d/%d, want 20/5/0/25", got.Present, got.Absent, got.Justified, got.Total)
		}
		if p, ok := got.Percent(); !ok || p != 80 {
			t.Errorf("Percent() = %v/%t, want 80/true", p, ok)
		}
		if f := got.Frequency(1); f != "80.0%" {
			t.Errorf("Frequency(1) = %q, want \"80.0%%\"", f)
		}

		// a student with no records has no frequency, not a zero one
		if _, ok := rows[1].Percent(); ok {
			t.Error("Percent() for unrecorded student reported ok")
		}
		if f := rows[1].Frequency(1); f != attendance.NoRecordMark {
			t.Errorf("Frequency(1) for unrecorded student = %q, want %q", f, attendance.NoRecordMark)
		}
	})

	t.Run("year spans months", func(t *testing.T) {
		rows, err := store.ClassSummary(cls.ID, "2025")
		if err != nil {
			t.Fatalf("ClassSummary() failed: %v", err)
		}
		got := rows[0]
		if got.Justified != 2 || got.Total != 27 {
			t.Errorf("Ana's annual counts = justified %d, total %d, want 2/27", got.Justified, got.Total)
		}
	})

	t.Run("bad periods", func(t *testing.T) {
		for _, period := range []string{"2025-13", "03-2025", "2025-3", "lol", ""} {
			if _, err := store.ClassSummary(cls.ID, period); err == nil {
				t.Errorf("ClassSummary(%q) succeeded, want validation error", period)
			}
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		if _, err := store.ClassSummary("lol", "2025-03"); err != attendance.ErrClassNotFound {
			t.Errorf("ClassSummary() error = %v, want ErrClassNotFound", err)
		}
	})
}

func TestStore_MonthlyGrid(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")
	ana := testutil.CreateStudent(t, store, cls.ID, "Ana")

	testutil.SaveDay(t, store, cls.ID, "2024-02-01", []attendance.RecordEntry{
		{StudentID: ana.ID, Status: attendance.StatusPresent},
	})
	testutil.SaveDay(t, store, cls.ID, "2024-02-02", []attendance.RecordEntry{
		{StudentID: ana.ID, Status: attendance.StatusPresent},
	})
	testutil.SaveDay(t, store, cls.ID, "2024-02-29", []attendance.RecordEntry{
		{StudentID: ana.ID, Status: attendance.StatusAbsent},
	})

	grid, err := store.MonthlyGrid(cls.ID, "2024-02")
	if err != nil {
		t.Fatalf("MonthlyGrid() failed: %v", err)
	}

	if grid.Days != 29 { // leap year
		t.Errorf("Days = %d, want 29", grid.Days)
	}
	if len(grid.Rows) != 1 {
		t.Fatalf("MonthlyGrid() returned %d rows, want 1", len(grid.Rows))
	}

	row := grid.Rows[0]
	if len(row.Marks) != 29 {
		t.Fatalf("Marks length = %d, want 29", len(row.Marks))
	}
	if row.Marks[0] != "P" || row.Marks[1] != "P" || row.Marks[28] != "F" {
		t.Errorf("Marks = %v, want P/P/.../F", row.Marks)
	}
	if row.Marks[2] != attendance.NoRecordMark {
		t.Errorf("unrecorded day mark = %q, want %q", row.Marks[2], attendance.NoRecordMark)
	}
	if row.Present != 2 || row.Absent != 1 || row.Total != 3 {
		t.Errorf("counts = %d/%d/%d, want 2/1/3", row.Present, row.Absent, row.Total)
	}
	if f := row.Frequency(0); f != "67%" {
		t.Errorf("Frequency(0) = %q, want \"67%%\"", f)
	}

	if _, err := store.MonthlyGrid(cls.ID, "2024"); err == nil {
		t.Error("MonthlyGrid() accepted a year, want validation error")
	}
	if _, err := store.MonthlyGrid("lol", "2024-02"); err != attendance.ErrClassNotFound {
		t.Errorf("MonthlyGrid() error = %v, want ErrClassNotFound", err)
	}
}

func TestStore_RecordedDates(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")
	ana := testutil.CreateStudent(t, store, cls.ID, "Ana")

	for _, date := range []string{"2025-03-12", "2025-03-10", "2025-04-01"} {
		testutil.SaveDay(t, store, cls.ID, date, []attendance.RecordEntry{
			{StudentID: ana.ID, Status: attendance.StatusPresent},
		})
	}

	got, err := store.RecordedDates(cls.ID, "2025-03")
	if err != nil {
		t.Fatalf("RecordedDates() failed: %v", err)
	}
	want := []string{"2025-03-10", "2025-03-12"}
	if len(got) != len(want) {
		t.Fatalf("RecordedDates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RecordedDates() = %v, want %v", got, want)
		}
	}

	// an unconstrained month would leak every recorded date
	for _, month := range []string{"", "2025", "2025-13", "lol"} {
		if _, err := store.RecordedDates(cls.ID, month); err == nil {
			t.Errorf("RecordedDates(%q) succeeded, want validation error", month)
		}
	}
}
