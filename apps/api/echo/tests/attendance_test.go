package tests

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/chamadasimples/chamada/core/attendance"
	"github.com/chamadasimples/chamada/tests"
)

func Test_api_schools(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")

	type school struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Password string `json:"password"` // must never come back
	}

	// creating a school selects it
	req, rec := newRequest(http.MethodPost, "/v1/schools", []byte(`{"name": "Escola X"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created school
	decodeBody(t, rec, &created)
	if created.Name != "Escola X" || created.ID == "" {
		t.Errorf("create response = %+v", created)
	}
	if created.Password != "" {
		t.Error("school response carries a password")
	}

	req, rec = newRequest(http.MethodGet, "/v1/schools/current")
	app.ServeHTTP(rec, req)
	var current school
	decodeBody(t, rec, &current)
	if current.ID != created.ID {
		t.Errorf("current school = %v; want %v", current.ID, created.ID)
	}

	// switch selection by id
	second := testutil.CreateSchool(t, store, "Escola Y") // selects Escola Y
	req, rec = newRequest(http.MethodPut, "/v1/schools/current",
		[]byte(fmt.Sprintf(`{"id": %q}`, created.ID)))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("select code = %v: %s", rec.Code, rec.Body.String())
	}
	if cur, _ := store.CurrentSchool(); cur.ID != created.ID {
		t.Errorf("selected school = %v; want %v", cur.ID, created.ID)
	}

	// unknown ids 404
	req, rec = newRequest(http.MethodPut, "/v1/schools/current", []byte(`{"id": "lol"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marshalObj(t, httpErr{Error: attendance.ErrSchoolNotFound.Error()}),
	}, rec)

	req, rec = newRequest(http.MethodDelete, "/v1/schools/"+second.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}
	if got := store.Schools(); len(got) != 1 {
		t.Errorf("%d schools left; want 1", len(got))
	}
}

func Test_api_classes(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")

	// no school selected yet
	req, rec := newRequest(http.MethodPost, "/v1/classes", []byte(`{"name": "9A"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marshalObj(t, httpErr{Error: attendance.ErrNoSchoolSelected.Error()}),
	}, rec)

	testutil.CreateSchool(t, store, "Escola X")

	req, rec = newRequest(http.MethodPost, "/v1/classes",
		[]byte(`{"name": "9A", "subject": "Matemática", "shift": "Manhã"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v: %s", rec.Code, rec.Body.String())
	}
	var cls attendance.Class
	decodeBody(t, rec, &cls)

	req, rec = newRequest(http.MethodPost, "/v1/classes/bulk",
		[]byte(`{"entries": [{"name": "1B"}, {"name": "2C"}]}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("bulk create code = %v: %s", rec.Code, rec.Body.String())
	}
	var createdList []attendance.Class
	decodeBody(t, rec, &createdList)
	if len(createdList) != 2 || createdList[0].Subject != attendance.FallbackSubject {
		t.Errorf("bulk response = %+v", createdList)
	}

	req, rec = newRequest(http.MethodPut, "/v1/classes/"+cls.ID,
		[]byte(`{"name": "9A-2", "subject": "Matemática", "shift": "Tarde"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v: %s", rec.Code, rec.Body.String())
	}

	req, rec = newRequest(http.MethodDelete, "/v1/classes/"+cls.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}

	req, rec = newRequest(http.MethodGet, "/v1/classes")
	app.ServeHTTP(rec, req)
	var listed []attendance.Class
	decodeBody(t, rec, &listed)
	if len(listed) != 2 {
		t.Errorf("listed %d classes; want 2", len(listed))
	}
}

func Test_api_students(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")

	req, rec := newRequest(http.MethodPost, "/v1/classes/"+cls.ID+"/students/bulk",
		[]byte(`{"entries": [{"name": "Bruno"}, {"name": "Ana"}]}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("bulk create code = %v: %s", rec.Code, rec.Body.String())
	}

	req, rec = newRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/students")
	app.ServeHTTP(rec, req)
	var roster []attendance.Student
	decodeBody(t, rec, &roster)
	if len(roster) != 2 || roster[0].Name != "Ana" || roster[0].RollNumber != "01" {
		t.Errorf("roster = %+v; want Ana as 01", roster)
	}

	req, rec = newRequest(http.MethodPost, "/v1/students",
		[]byte(fmt.Sprintf(`{"classId": %q, "name": "Carla"}`, cls.ID)))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v: %s", rec.Code, rec.Body.String())
	}
	var carla attendance.Student
	decodeBody(t, rec, &carla)
	if carla.Status != attendance.StudentActive {
		t.Errorf("status = %v; want %v", carla.Status, attendance.StudentActive)
	}

	req, rec = newRequest(http.MethodPut, "/v1/students/"+carla.ID,
		[]byte(fmt.Sprintf(`{"name": "Carla", "status": "TRANSFERIDO", "classId": %q}`, cls.ID)))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v: %s", rec.Code, rec.Body.String())
	}

	req, rec = newRequest(http.MethodDelete, "/v1/students/"+carla.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}

	// unknown student 404s
	req, rec = newRequest(http.MethodDelete, "/v1/students/lol")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marshalObj(t, httpErr{Error: attendance.ErrStudentNotFound.Error()}),
	}, rec)
}

func Test_api_attendance(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")
	ana := testutil.CreateStudent(t, store, cls.ID, "Ana")
	bruno := testutil.CreateStudent(t, store, cls.ID, "Bruno")

	base := "/v1/classes/" + cls.ID + "/attendance"

	body := fmt.Sprintf(`{"date": "2025-03-10", "entries": [
		{"studentId": %q, "status": "PRESENT"},
		{"studentId": %q, "status": "AUSENTE"}
	]}`, ana.ID, bruno.ID)
	req, rec := newRequest(http.MethodPut, base, []byte(body))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	body = fmt.Sprintf(`{"date": "2025-03-10", "entries": [
		{"studentId": %q, "status": "PRESENT"},
		{"studentId": %q, "status": "ABSENT"}
	]}`, ana.ID, bruno.ID)
	req, rec = newRequest(http.MethodPut, base, []byte(body))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save code = %v: %s", rec.Code, rec.Body.String())
	}
	var saved []attendance.Record
	decodeBody(t, rec, &saved)
	if len(saved) != 2 {
		t.Errorf("save returned %d records; want 2", len(saved))
	}

	req, rec = newRequest(http.MethodGet, base+"?date=2025-03-10")
	app.ServeHTTP(rec, req)
	var day []attendance.Record
	decodeBody(t, rec, &day)
	if len(day) != 2 {
		t.Errorf("query returned %d records; want 2", len(day))
	}

	req, rec = newRequest(http.MethodGet, base+"/dates?month=2025-03")
	app.ServeHTTP(rec, req)
	var dates []string
	decodeBody(t, rec, &dates)
	if len(dates) != 1 || dates[0] != "2025-03-10" {
		t.Errorf("dates = %v; want [2025-03-10]", dates)
	}
}

func Test_api_reports(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")
	testutil.CreateSchool(t, store, "Escola X")
	cls := testutil.CreateClass(t, store, "9A")
	ana := testutil.CreateStudent(t, store, cls.ID, "Ana")

	for day := 1; day <= 5; day++ {
		status := attendance.StatusPresent
		if day == 5 {
			status = attendance.StatusAbsent
		}
		testutil.SaveDay(t, store, cls.ID, fmt.Sprintf("2025-03-%02d", day),
			[]attendance.RecordEntry{{StudentID: ana.ID, Status: status}})
	}

	base := "/v1/classes/" + cls.ID + "/reports"

	req, rec := newRequest(http.MethodGet, base+"/summary?month=2025-03")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary code = %v: %s", rec.Code, rec.Body.String())
	}
	var rows []attendance.StudentSummary
	decodeBody(t, rec, &rows)
	if len(rows) != 1 || rows[0].Present != 4 || rows[0].Total != 5 {
		t.Errorf("summary rows = %+v; want 4 presents of 5", rows)
	}

	req, rec = newRequest(http.MethodGet, base+"/monthly?month=2025-03")
	app.ServeHTTP(rec, req)
	var grid attendance.MonthlyGrid
	decodeBody(t, rec, &grid)
	if grid.Days != 31 || len(grid.Rows) != 1 {
		t.Errorf("grid = %d days, %d rows; want 31 days, 1 row", grid.Days, len(grid.Rows))
	}

	req, rec = newRequest(http.MethodGet, base+"/annual?year=2025&format=csv")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("annual csv code = %v: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q; want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Mapa_Final_2025.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Ana") {
		t.Error("csv body misses the student row")
	}

	req, rec = newRequest(http.MethodGet, base+"/monthly?month=2025")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad month code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
}

func Test_api_snapshot(t *testing.T) {
	store, app := newApp()
	testutil.Register(t, store, "Prof. Joao", "senha123")
	testutil.CreateSchool(t, store, "Escola X")

	req, rec := newRequest(http.MethodGet, "/v1/snapshot")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export code = %v: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "backup_completo_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := rec.Body.Bytes()

	// restore into a fresh app
	restoredStore, restoredApp := newApp()
	testutil.Register(t, restoredStore, "Prof. Maria", "outra")

	req, rec = newRequest(http.MethodPost, "/v1/snapshot", exported)
	restoredApp.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshalObj(t, map[string]string{"success": "Dados importados com sucesso!"}),
	}, rec)
	if got := restoredStore.Schools(); len(got) != 1 || got[0].Name != "Escola X" {
		t.Errorf("restored schools = %+v; want [Escola X]", got)
	}
	if restoredStore.Profile().TeacherName != "Prof. Joao" {
		t.Errorf("restored teacher = %q; want Prof. Joao", restoredStore.Profile().TeacherName)
	}

	req, rec = newRequest(http.MethodPost, "/v1/snapshot", []byte(`{"foo": 1}`))
	restoredApp.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marshalObj(t, httpErr{Error: attendance.ErrBadSnapshot.Error()}),
	}, rec)
}
