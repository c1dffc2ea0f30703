package attendance

import (
	"github.com/chamadasimples/chamada/core"
)

// Status is the attendance status of one Student on one calendar date.
type Status string

const (
	StatusPresent   Status = "PRESENT"
	StatusAbsent    Status = "ABSENT"
	StatusJustified Status = "JUSTIFIED"
)

// Valid returns true when the status is a supported value.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusJustified:
		return true
	default:
		return false
	}
}

// Char returns the single-letter mark used in report grids.
func (s Status) Char() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "F"
	case StatusJustified:
		return "J"
	default:
		return NoRecordMark
	}
}

// StudentStatus is the enrollment status of a Student.
type StudentStatus string

const (
	StudentActive      StudentStatus = "ATIVO"
	StudentTransferred StudentStatus = "TRANSFERIDO"
	StudentUndefined   StudentStatus = "INDEFINIDO"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentTransferred, StudentUndefined:
		return true
	default:
		return false
	}
}

// Conventional shift values. Shift stays free text so snapshots written with
// custom shifts keep importing; these are the values the forms offer.
const (
	ShiftMorning   = "Manhã"
	ShiftAfternoon = "Tarde"
	ShiftEvening   = "Noite"
	ShiftFullTime  = "Integral"
	ShiftUnset     = "Não informado"
)

// FallbackSubject is used when neither the caller nor the school names one.
const FallbackSubject = "Geral"

// NoRecordMark is the grid mark for a day with no attendance record.
const NoRecordMark = "-"

type School struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TeacherName    string `json:"teacherName"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	DefaultSubject string `json:"defaultSubject"`
}

// Profile is the single global credential/session record ("schoolInfo" in the
// snapshot; legacy single-tenant fields kept for login gating).
type Profile struct {
	TeacherName    string `json:"teacherName"`
	SchoolName     string `json:"schoolName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	DefaultSubject string `json:"defaultSubject"`
	IsRegistered   bool   `json:"isRegistered"`
	IsLoggedIn     bool   `json:"isLoggedIn"`
}

type Class struct {
	ID          string `json:"id"`
	SchoolID    string `json:"schoolId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Shift       string `json:"shift"`
}

type Student struct {
	ID      string `json:"id"`
	ClassID string `json:"classId"`
	Name    string `json:"name"`
	// RollNumber is derived, never caller-set: 1-based position in the
	// class roster sorted by name (pt-BR collation), zero-padded to 2.
	RollNumber string        `json:"rollNumber"`
	Status     StudentStatus `json:"status"`
}

// Record is one attendance status for one Student on one calendar date.
// At most one record exists per (classId, date, studentId).
type Record struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // ISO calendar date, "2006-01-02"
	ClassID   string `json:"classId"`
	StudentID string `json:"studentId"`
	Status    Status `json:"status"`
}

// Database is the aggregate root: the sole source of truth, serialized in
// full on every mutation. The JSON shape is both the storage format and the
// export/import file format.
type Database struct {
	Schools         []School  `json:"schools"`
	CurrentSchoolID *string   `json:"currentSchoolId"`
	Classes         []Class   `json:"classes"`
	Students        []Student `json:"students"`
	Attendance      []Record  `json:"attendance"`
	Profile         Profile   `json:"schoolInfo"`
}

// NewDatabase returns the empty first-run Database.
func NewDatabase() *Database {
	return &Database{
		Schools:    []School{},
		Classes:    []Class{},
		Students:   []Student{},
		Attendance: []Record{},
	}
}

// normalize repairs collections of a loaded/imported Database so the rest of
// the code can assume non-nil slices.
func (db *Database) normalize() {
	if db.Schools == nil {
		db.Schools = []School{}
	}
	if db.Classes == nil {
		db.Classes = []Class{}
	}
	if db.Students == nil {
		db.Students = []Student{}
	}
	if db.Attendance == nil {
		db.Attendance = []Record{}
	}
}

// Registration contains the information needed to initialize the global
// credential record.
type Registration struct {
	TeacherName    string `json:"teacherName" validate:"required"`
	Password       string `json:"password" validate:"required"`
	DefaultSubject string `json:"defaultSubject"`
}

func (r *Registration) Validate() error {
	r.TeacherName = core.CleanString(r.TeacherName)
	r.DefaultSubject = core.CleanString(r.DefaultSubject)
	return core.Validate.Struct(r)
}

// NewSchool contains the information needed to create a new School.
type NewSchool struct {
	Name           string `json:"name" validate:"required"`
	TeacherName    string `json:"teacherName"`
	Email          string `json:"email" validate:"omitempty,email"`
	DefaultSubject string `json:"defaultSubject"`
}

func (ns *NewSchool) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.TeacherName = core.CleanString(ns.TeacherName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.DefaultSubject = core.CleanString(ns.DefaultSubject)
	return core.Validate.Struct(ns)
}

// NewClass contains the information needed to create a new Class.
type NewClass struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Shift       string `json:"shift"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.Subject = core.CleanString(nc.Subject)
	nc.Shift = core.CleanString(nc.Shift)
	return core.Validate.Struct(nc)
}

// UpdateClass replaces the named fields of an existing Class.
type UpdateClass struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Shift       string `json:"shift"`
}

func (uc *UpdateClass) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Description = core.CleanString(uc.Description)
	uc.Subject = core.CleanString(uc.Subject)
	uc.Shift = core.CleanString(uc.Shift)
	return core.Validate.Struct(uc)
}

// ClassEntry is one row of a bulk class import. Subject defaults to the
// school's default subject (FallbackSubject if absent), Shift to ShiftUnset.
type ClassEntry struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Shift       string `json:"shift"`
}

func (ce *ClassEntry) Validate() error {
	ce.Name = core.CleanString(ce.Name)
	ce.Description = core.CleanString(ce.Description)
	ce.Subject = core.CleanString(ce.Subject)
	ce.Shift = core.CleanString(ce.Shift)
	return core.Validate.Struct(ce)
}

// NewStudent contains the information needed to create a new Student.
// Roll number is not accepted; it is derived after every roster change.
type NewStudent struct {
	ClassID string        `json:"classId" validate:"required"`
	Name    string        `json:"name" validate:"required"`
	Status  StudentStatus `json:"status" validate:"omitempty,studentstatus"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	if ns.Status == "" {
		ns.Status = StudentActive
	}
	return core.Validate.Struct(ns)
}

// UpdateStudent replaces the mutable fields of an existing Student; changing
// ClassID moves the student and renumbers both rosters.
type UpdateStudent struct {
	Name    string        `json:"name" validate:"required"`
	Status  StudentStatus `json:"status" validate:"required,studentstatus"`
	ClassID string        `json:"classId" validate:"required"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	return core.Validate.Struct(us)
}

// StudentEntry is one row of a bulk student import; status defaults to ATIVO.
type StudentEntry struct {
	Name string `json:"name" validate:"required"`
}

func (se *StudentEntry) Validate() error {
	se.Name = core.CleanString(se.Name)
	return core.Validate.Struct(se)
}

// RecordEntry is one student's status in a saved attendance sheet.
type RecordEntry struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    Status `json:"status" validate:"required,attstatus"`
}

// sheet is the validated input of SaveAttendance.
type sheet struct {
	ClassID string        `json:"classId" validate:"required"`
	Date    string        `json:"date" validate:"required,isodate"`
	Entries []RecordEntry `json:"entries" validate:"omitempty,dive"`
}

// ProfileUpdate replaces the editable session record fields; the registration
// and login flags are preserved.
type ProfileUpdate struct {
	TeacherName    string `json:"teacherName" validate:"required"`
	SchoolName     string `json:"schoolName"`
	Email          string `json:"email" validate:"omitempty,email"`
	Password       string `json:"password"`
	DefaultSubject string `json:"defaultSubject"`
}

func (pu *ProfileUpdate) Validate() error {
	pu.TeacherName = core.CleanString(pu.TeacherName)
	pu.SchoolName = core.CleanString(pu.SchoolName)
	pu.Email = core.CleanString(pu.Email, true /* lower */)
	pu.DefaultSubject = core.CleanString(pu.DefaultSubject)
	return core.Validate.Struct(pu)
}
