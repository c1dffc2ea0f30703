package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core"
	"github.com/chamadasimples/chamada/core/attendance"
)

type schoolApi struct {
	store *attendance.Store
}

func registerSchoolAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := schoolApi{store: store}

	sg := g.Group("/schools", gate)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/current", api.current)
	sg.PUT("/current", api.selectCurrent)
	sg.DELETE("/:id", api.destroy)
}

type selectSchoolRequest struct {
	ID string `json:"id" validate:"required"`
}

// schoolResponse is a School without the legacy stored password.
type schoolResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TeacherName    string `json:"teacherName"`
	Email          string `json:"email"`
	DefaultSubject string `json:"defaultSubject"`
}

func newSchoolResponse(s attendance.School) schoolResponse {
	return schoolResponse{
		ID:             s.ID,
		Name:           s.Name,
		TeacherName:    s.TeacherName,
		Email:          s.Email,
		DefaultSubject: s.DefaultSubject,
	}
}

func newSchoolListResponse(schools []attendance.School) []schoolResponse {
	out := make([]schoolResponse, 0, len(schools))
	for _, s := range schools {
		out = append(out, newSchoolResponse(s))
	}
	return out
}

// Handlers

func (api *schoolApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, newSchoolListResponse(api.store.Schools()))
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data attendance.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	sch, err := api.store.CreateSchool(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newSchoolResponse(sch))
}

func (api *schoolApi) current(ctx echo.Context) error {
	sch, ok := api.store.CurrentSchool()
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, newSchoolResponse(sch))
}

func (api *schoolApi) selectCurrent(ctx echo.Context) error {
	var data selectSchoolRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to selectSchoolRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	if err := api.store.SelectSchool(data.ID); err != nil {
		return err
	}
	sch, _ := api.store.CurrentSchool()
	return ctx.JSON(http.StatusOK, newSchoolResponse(sch))
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	if err := api.store.DeleteSchool(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
