package attendance

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/chamadasimples/chamada/core"
)

var (
	// errors
	ErrSchoolNotFound     = errors.New("school not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrNoSchoolSelected   = errors.New("no school selected")
	ErrNotRegistered      = errors.New("no registered profile")
	ErrInvalidCredentials = errors.New("name or password incorrect")
	ErrBadSnapshot        = errors.New("unrecognized snapshot file")
)

// Saver persists the full Database after each successful mutation.
// Implementations must not hold on to the value past the call.
type Saver interface {
	Save(db Database) error
}

// Store is the only writer of the Database. Every operation leaves the
// invariants intact: cascading deletes, roster renumbering and the one
// record per (classId, date, studentId) rule.
type Store struct {
	mu    sync.RWMutex
	db    *Database
	saver Saver
	log   core.Logger
}

func NewStore(db *Database, saver Saver, logger core.Logger) *Store {
	if db == nil {
		db = NewDatabase()
	}
	db.normalize()
	return &Store{db: db, saver: saver, log: logger}
}

// newCollator returns a pt-BR case-insensitive collator. A fresh one per
// sort: Collator buffers are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

// persist hands the current Database to the Saver. Failures are logged and
// swallowed: a crash between mutation and write loses that mutation only.
func (s *Store) persist() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(*s.db); err != nil {
		if s.log != nil {
			s.log.Error("persisting snapshot", err)
		}
	}
}

// Session

// Register initializes the global credential record and wipes all schools.
func (s *Store) Register(r Registration) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Schools = []School{}
	s.db.CurrentSchoolID = nil
	s.db.Profile = Profile{
		TeacherName:    r.TeacherName,
		Password:       r.Password,
		DefaultSubject: r.DefaultSubject,
		IsRegistered:   true,
		IsLoggedIn:     true,
	}
	s.persist()
	return nil
}

// Login succeeds iff a registered profile exists, the name matches
// case-insensitively (trimmed) and the password matches exactly.
func (s *Store) Login(name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.db.Profile
	if !p.IsRegistered ||
		core.CleanString(p.TeacherName, true /* lower */) != core.CleanString(name, true /* lower */) ||
		p.Password != password {
		return ErrInvalidCredentials
	}
	s.db.Profile.IsLoggedIn = true
	s.persist()
	return nil
}

// Logout flips the login flag; data is kept.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Profile.IsLoggedIn = false
	s.persist()
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Profile.IsLoggedIn
}

func (s *Store) Registered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Profile.IsRegistered
}

func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Profile
}

// UpdateProfile replaces the editable session record fields and keeps the
// currently selected School's legacy single-tenant fields in sync.
func (s *Store) UpdateProfile(pu ProfileUpdate) error {
	if err := pu.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.db.Profile.IsRegistered {
		return ErrNotRegistered
	}

	s.db.Profile.TeacherName = pu.TeacherName
	s.db.Profile.SchoolName = pu.SchoolName
	s.db.Profile.Email = pu.Email
	s.db.Profile.DefaultSubject = pu.DefaultSubject
	if pu.Password != "" {
		s.db.Profile.Password = pu.Password
	}

	if s.db.CurrentSchoolID != nil {
		for i := range s.db.Schools {
			if s.db.Schools[i].ID == *s.db.CurrentSchoolID {
				s.db.Schools[i].Name = pu.SchoolName
				s.db.Schools[i].TeacherName = pu.TeacherName
				s.db.Schools[i].Email = pu.Email
				s.db.Schools[i].DefaultSubject = pu.DefaultSubject
				break
			}
		}
	}
	s.persist()
	return nil
}

// Schools

// CreateSchool appends a new School and selects it.
func (s *Store) CreateSchool(ns NewSchool) (School, error) {
	if err := ns.Validate(); err != nil {
		return School{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sch := School{
		ID:             uuid.New().String(),
		Name:           ns.Name,
		TeacherName:    ns.TeacherName,
		Email:          ns.Email,
		DefaultSubject: ns.DefaultSubject,
	}
	s.db.Schools = append(s.db.Schools, sch)
	id := sch.ID
	s.db.CurrentSchoolID = &id
	s.persist()
	return sch, nil
}

func (s *Store) SelectSchool(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Schools {
		if s.db.Schools[i].ID == id {
			selected := id
			s.db.CurrentSchoolID = &selected
			s.persist()
			return nil
		}
	}
	return ErrSchoolNotFound
}

// DeleteSchool cascades to the school's classes, their students and their
// attendance records. If the deleted school was selected, the first
// remaining school (if any) becomes selected.
func (s *Store) DeleteSchool(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.db.Schools {
		if s.db.Schools[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSchoolNotFound
	}

	classIDs := make(map[string]bool)
	for _, c := range s.db.Classes {
		if c.SchoolID == id {
			classIDs[c.ID] = true
		}
	}

	s.db.Schools = append(s.db.Schools[:idx], s.db.Schools[idx+1:]...)
	if s.db.CurrentSchoolID != nil && *s.db.CurrentSchoolID == id {
		if len(s.db.Schools) > 0 {
			next := s.db.Schools[0].ID
			s.db.CurrentSchoolID = &next
		} else {
			s.db.CurrentSchoolID = nil
		}
	}

	classes := s.db.Classes[:0]
	for _, c := range s.db.Classes {
		if c.SchoolID != id {
			classes = append(classes, c)
		}
	}
	s.db.Classes = classes

	students := s.db.Students[:0]
	for _, st := range s.db.Students {
		if !classIDs[st.ClassID] {
			students = append(students, st)
		}
	}
	s.db.Students = students

	records := s.db.Attendance[:0]
	for _, r := range s.db.Attendance {
		if !classIDs[r.ClassID] {
			records = append(records, r)
		}
	}
	s.db.Attendance = records

	s.persist()
	return nil
}

func (s *Store) Schools() []School {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]School(nil), s.db.Schools...)
}

// CurrentSchool returns the selected School, if any.
func (s *Store) CurrentSchool() (School, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSchool()
}

func (s *Store) currentSchool() (School, bool) {
	if s.db.CurrentSchoolID == nil {
		return School{}, false
	}
	for _, sch := range s.db.Schools {
		if sch.ID == *s.db.CurrentSchoolID {
			return sch, true
		}
	}
	return School{}, false
}

// Classes

// CreateClass appends a Class owned by the currently selected school.
func (s *Store) CreateClass(nc NewClass) (Class, error) {
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.CurrentSchoolID == nil {
		return Class{}, ErrNoSchoolSelected
	}
	cls := Class{
		ID:          uuid.New().String(),
		SchoolID:    *s.db.CurrentSchoolID,
		Name:        nc.Name,
		Description: nc.Description,
		Subject:     nc.Subject,
		Shift:       nc.Shift,
	}
	s.db.Classes = append(s.db.Classes, cls)
	s.persist()
	return cls, nil
}

func (s *Store) EditClass(id string, uc UpdateClass) error {
	if err := uc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Classes {
		if s.db.Classes[i].ID == id {
			s.db.Classes[i].Name = uc.Name
			s.db.Classes[i].Description = uc.Description
			s.db.Classes[i].Subject = uc.Subject
			s.db.Classes[i].Shift = uc.Shift
			s.persist()
			return nil
		}
	}
	return ErrClassNotFound
}

// BulkCreateClasses creates one Class per entry under the selected school,
// defaulting unset subjects to the school's default subject and unset shifts
// to the fallback placeholder.
func (s *Store) BulkCreateClasses(entries []ClassEntry) ([]Class, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.CurrentSchoolID == nil {
		return nil, ErrNoSchoolSelected
	}
	defaultSubject := FallbackSubject
	if sch, ok := s.currentSchool(); ok && sch.DefaultSubject != "" {
		defaultSubject = sch.DefaultSubject
	}

	created := make([]Class, 0, len(entries))
	for _, e := range entries {
		subject := e.Subject
		if subject == "" {
			subject = defaultSubject
		}
		shift := e.Shift
		if shift == "" {
			shift = ShiftUnset
		}
		cls := Class{
			ID:          uuid.New().String(),
			SchoolID:    *s.db.CurrentSchoolID,
			Name:        e.Name,
			Description: e.Description,
			Subject:     subject,
			Shift:       shift,
		}
		s.db.Classes = append(s.db.Classes, cls)
		created = append(created, cls)
	}
	s.persist()
	return created, nil
}

// DeleteClass cascades: the class, all its students, all its records.
func (s *Store) DeleteClass(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.db.Classes {
		if s.db.Classes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrClassNotFound
	}
	s.db.Classes = append(s.db.Classes[:idx], s.db.Classes[idx+1:]...)

	students := s.db.Students[:0]
	for _, st := range s.db.Students {
		if st.ClassID != id {
			students = append(students, st)
		}
	}
	s.db.Students = students

	records := s.db.Attendance[:0]
	for _, r := range s.db.Attendance {
		if r.ClassID != id {
			records = append(records, r)
		}
	}
	s.db.Attendance = records

	s.persist()
	return nil
}

// Classes returns the selected school's classes sorted by name.
func (s *Store) Classes() []Class {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db.CurrentSchoolID == nil {
		return []Class{}
	}
	classes := make([]Class, 0, len(s.db.Classes))
	for _, c := range s.db.Classes {
		if c.SchoolID == *s.db.CurrentSchoolID {
			classes = append(classes, c)
		}
	}
	col := newCollator()
	sort.SliceStable(classes, func(i, j int) bool {
		return col.CompareString(classes[i].Name, classes[j].Name) < 0
	})
	return classes
}

func (s *Store) Class(id string) (Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.class(id)
}

func (s *Store) class(id string) (Class, error) {
	for _, c := range s.db.Classes {
		if c.ID == id {
			return c, nil
		}
	}
	return Class{}, ErrClassNotFound
}

// Students

// CreateStudent inserts a Student and renumbers their class roster.
func (s *Store) CreateStudent(ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.class(ns.ClassID); err != nil {
		return Student{}, err
	}
	st := Student{
		ID:      uuid.New().String(),
		ClassID: ns.ClassID,
		Name:    ns.Name,
		Status:  ns.Status,
	}
	s.db.Students = append(s.db.Students, st)
	s.renumber(ns.ClassID)
	s.persist()
	return s.student(st.ID)
}

// EditStudent updates a Student; moving between classes renumbers both
// rosters.
func (s *Store) EditStudent(id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(); err != nil {
		return Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.db.Students {
		if s.db.Students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Student{}, ErrStudentNotFound
	}
	if _, err := s.class(us.ClassID); err != nil {
		return Student{}, err
	}

	prevClassID := s.db.Students[idx].ClassID
	s.db.Students[idx].Name = us.Name
	s.db.Students[idx].Status = us.Status
	s.db.Students[idx].ClassID = us.ClassID

	s.renumber(us.ClassID)
	if prevClassID != us.ClassID {
		s.renumber(prevClassID)
	}
	s.persist()
	return s.student(id)
}

// BulkCreateStudents inserts one ATIVO Student per entry and renumbers once.
func (s *Store) BulkCreateStudents(classID string, entries []StudentEntry) ([]Student, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.class(classID); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		st := Student{
			ID:      uuid.New().String(),
			ClassID: classID,
			Name:    e.Name,
			Status:  StudentActive,
		}
		s.db.Students = append(s.db.Students, st)
		ids = append(ids, st.ID)
	}
	s.renumber(classID)
	s.persist()

	created := make([]Student, 0, len(ids))
	for _, id := range ids {
		st, _ := s.student(id)
		created = append(created, st)
	}
	return created, nil
}

// DeleteStudent removes the Student, cascades to their records and renumbers
// the remaining roster.
func (s *Store) DeleteStudent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.db.Students {
		if s.db.Students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrStudentNotFound
	}
	classID := s.db.Students[idx].ClassID
	s.db.Students = append(s.db.Students[:idx], s.db.Students[idx+1:]...)

	records := s.db.Attendance[:0]
	for _, r := range s.db.Attendance {
		if r.StudentID != id {
			records = append(records, r)
		}
	}
	s.db.Attendance = records

	s.renumber(classID)
	s.persist()
	return nil
}

// Students returns the class roster in roll-number order.
func (s *Store) Students(classID string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster(classID)
}

func (s *Store) roster(classID string) []Student {
	roster := make([]Student, 0)
	for _, st := range s.db.Students {
		if st.ClassID == classID {
			roster = append(roster, st)
		}
	}
	col := newCollator()
	sort.SliceStable(roster, func(i, j int) bool {
		return col.CompareString(roster[i].Name, roster[j].Name) < 0
	})
	return roster
}

func (s *Store) student(id string) (Student, error) {
	for _, st := range s.db.Students {
		if st.ID == id {
			return st, nil
		}
	}
	return Student{}, ErrStudentNotFound
}

// renumber restores the roll-number invariant for one class: 1-based
// position in pt-BR case-insensitive name order, zero-padded to 2 digits.
// Other classes are untouched.
func (s *Store) renumber(classID string) {
	roster := make([]*Student, 0)
	for i := range s.db.Students {
		if s.db.Students[i].ClassID == classID {
			roster = append(roster, &s.db.Students[i])
		}
	}
	col := newCollator()
	sort.SliceStable(roster, func(i, j int) bool {
		return col.CompareString(roster[i].Name, roster[j].Name) < 0
	})
	for i, st := range roster {
		st.RollNumber = fmt.Sprintf("%02d", i+1)
	}
}

// Attendance

// SaveAttendance replaces all records for (classID, date) with the given
// entries: students missing from entries lose their record for that date.
func (s *Store) SaveAttendance(classID, date string, entries []RecordEntry) error {
	data := sheet{ClassID: classID, Date: date, Entries: entries}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	// one record per (classId, date, studentId): a sheet naming a student
	// twice would insert twice
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.StudentID] {
			return core.NewValidationError(nil, core.FieldError{
				Field: "entries",
				Error: "duplicate studentId " + e.StudentID,
			})
		}
		seen[e.StudentID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.class(classID); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := s.student(e.StudentID); err != nil {
			return err
		}
	}

	records := s.db.Attendance[:0]
	for _, r := range s.db.Attendance {
		if !(r.ClassID == classID && r.Date == date) {
			records = append(records, r)
		}
	}
	for _, e := range entries {
		records = append(records, Record{
			ID:        uuid.New().String(),
			Date:      date,
			ClassID:   classID,
			StudentID: e.StudentID,
			Status:    e.Status,
		})
	}
	s.db.Attendance = records

	s.persist()
	return nil
}

// Records returns the records for (classID, date).
func (s *Store) Records(classID, date string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0)
	for _, r := range s.db.Attendance {
		if r.ClassID == classID && r.Date == date {
			records = append(records, r)
		}
	}
	return records
}

// RecordedDates returns the distinct dates with records for the class within
// the given "YYYY-MM" month, ascending.
func (s *Store) RecordedDates(classID, month string) ([]string, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	dates := make([]string, 0)
	for _, r := range s.db.Attendance {
		if r.ClassID == classID && len(r.Date) >= len(month) && r.Date[:len(month)] == month && !seen[r.Date] {
			seen[r.Date] = true
			dates = append(dates, r.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// Totals returns whole-database entity counts, across all schools.
func (s *Store) Totals() (schools, classes, students, records int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.db.Schools), len(s.db.Classes), len(s.db.Students), len(s.db.Attendance)
}

// Snapshot

// ExportSnapshot serializes the full Database; the output is exactly what
// ImportSnapshot accepts.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshalling snapshot")
	}
	return data, nil
}

// ImportSnapshot replaces the whole Database with the parsed payload, if it
// carries at least one recognizable top-level field. On failure the current
// state is left untouched.
func (s *Store) ImportSnapshot(data []byte) error {
	var probe struct {
		Schools *json.RawMessage `json:"schools"`
		Profile *json.RawMessage `json:"schoolInfo"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ErrBadSnapshot
	}
	if probe.Schools == nil && probe.Profile == nil {
		return ErrBadSnapshot
	}

	db := new(Database)
	if err := json.Unmarshal(data, db); err != nil {
		return ErrBadSnapshot
	}
	db.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.db = db
	s.persist()
	return nil
}
