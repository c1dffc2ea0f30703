package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

type attendanceApi struct {
	store *attendance.Store
}

func registerAttendanceAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := attendanceApi{store: store}

	g.GET("/classes/:id/attendance", api.query, gate)
	g.PUT("/classes/:id/attendance", api.save, gate)
	g.GET("/classes/:id/attendance/dates", api.recordedDates, gate)
}

type saveAttendanceRequest struct {
	Date    string                   `json:"date"`
	Entries []attendance.RecordEntry `json:"entries"`
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	if _, err := api.store.Class(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.Records(ctx.Param("id"), ctx.QueryParam("date")))
}

// save replaces the whole sheet for (class, date): entries left out erase
// that student's record for the date.
func (api *attendanceApi) save(ctx echo.Context) error {
	var data saveAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to saveAttendanceRequest")
	}
	if err := api.store.SaveAttendance(ctx.Param("id"), data.Date, data.Entries); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.Records(ctx.Param("id"), data.Date))
}

func (api *attendanceApi) recordedDates(ctx echo.Context) error {
	if _, err := api.store.Class(ctx.Param("id")); err != nil {
		return err
	}
	dates, err := api.store.RecordedDates(ctx.Param("id"), ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dates)
}
