package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

type classApi struct {
	store *attendance.Store
}

func registerClassAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := classApi{store: store}

	cg := g.Group("/classes", gate)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.POST("/bulk", api.bulkCreate)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

type bulkClassesRequest struct {
	Entries []attendance.ClassEntry `json:"entries"`
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Classes())
}

func (api *classApi) create(ctx echo.Context) error {
	var data attendance.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	cls, err := api.store.CreateClass(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) bulkCreate(ctx echo.Context) error {
	var data bulkClassesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to bulkClassesRequest")
	}
	created, err := api.store.BulkCreateClasses(data.Entries)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *classApi) update(ctx echo.Context) error {
	var data attendance.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := api.store.EditClass(ctx.Param("id"), data); err != nil {
		return err
	}
	cls, err := api.store.Class(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.store.DeleteClass(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
