package testutil

import (
	"testing"

	"github.com/chamadasimples/chamada/core/attendance"
)

// NewStore returns an empty Store with no persistence attached.
func NewStore(t *testing.T) *attendance.Store {
	t.Helper()
	return attendance.NewStore(nil, nil, nil)
}

func Register(t *testing.T, store *attendance.Store, name, pwd string) {
	t.Helper()
	if err := store.Register(attendance.Registration{TeacherName: name, Password: pwd}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
}

func CreateSchool(t *testing.T, store *attendance.Store, name string) attendance.School {
	t.Helper()
	sch, err := store.CreateSchool(attendance.NewSchool{Name: name})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreateClass(t *testing.T, store *attendance.Store, name string) attendance.Class {
	t.Helper()
	cls, err := store.CreateClass(attendance.NewClass{Name: name})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateStudent(t *testing.T, store *attendance.Store, classID, name string) attendance.Student {
	t.Helper()
	st, err := store.CreateStudent(attendance.NewStudent{ClassID: classID, Name: name})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func SaveDay(t *testing.T, store *attendance.Store, classID, date string, entries []attendance.RecordEntry) {
	t.Helper()
	if err := store.SaveAttendance(classID, date, entries); err != nil {
		t.Fatalf("SaveAttendance() failed: %v", err)
	}
}
