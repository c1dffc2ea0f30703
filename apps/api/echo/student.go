package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

type studentApi struct {
	store *attendance.Store
}

func registerStudentAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := studentApi{store: store}

	g.GET("/classes/:id/students", api.query, gate)
	g.POST("/classes/:id/students/bulk", api.bulkCreate, gate)

	sg := g.Group("/students", gate)
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

type bulkStudentsRequest struct {
	Entries []attendance.StudentEntry `json:"entries"`
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	if _, err := api.store.Class(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.Students(ctx.Param("id")))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data attendance.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	st, err := api.store.CreateStudent(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) bulkCreate(ctx echo.Context) error {
	var data bulkStudentsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to bulkStudentsRequest")
	}
	created, err := api.store.BulkCreateStudents(ctx.Param("id"), data.Entries)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data attendance.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	st, err := api.store.EditStudent(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.store.DeleteStudent(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
