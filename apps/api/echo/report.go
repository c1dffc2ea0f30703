package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chamadasimples/chamada/core/attendance"
	reportsvc "github.com/chamadasimples/chamada/services/report"
)

type reportApi struct {
	store *attendance.Store
}

func registerReportAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := reportApi{store: store}

	rg := g.Group("/classes/:id/reports", gate)
	rg.GET("/monthly", api.monthlyGrid)
	rg.GET("/summary", api.monthlySummary)
	rg.GET("/annual", api.annualMap)
}

// Handlers

// monthlyGrid serves the detailed day-by-day grid for ?month=YYYY-MM.
func (api *reportApi) monthlyGrid(ctx echo.Context) error {
	grid, err := api.store.MonthlyGrid(ctx.Param("id"), ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	if ctx.QueryParam("format") == "csv" {
		name := fmt.Sprintf("Mensal_Detalhado_%s.csv", grid.Month)
		return api.serveCSV(ctx, name, func() error {
			return reportsvc.WriteMonthlyGrid(ctx.Response(), grid)
		})
	}
	return ctx.JSON(http.StatusOK, grid)
}

// monthlySummary serves the simple per-student summary for ?month=YYYY-MM.
func (api *reportApi) monthlySummary(ctx echo.Context) error {
	month := ctx.QueryParam("month")
	rows, err := api.store.ClassSummary(ctx.Param("id"), month)
	if err != nil {
		return err
	}
	if ctx.QueryParam("format") == "csv" {
		name := fmt.Sprintf("Resumo_%s.csv", month)
		return api.serveCSV(ctx, name, func() error {
			return reportsvc.WriteMonthlySummary(ctx.Response(), rows)
		})
	}
	return ctx.JSON(http.StatusOK, rows)
}

// annualMap serves the final frequency map for ?year=YYYY.
func (api *reportApi) annualMap(ctx echo.Context) error {
	year := ctx.QueryParam("year")
	rows, err := api.store.ClassSummary(ctx.Param("id"), year)
	if err != nil {
		return err
	}
	if ctx.QueryParam("format") == "csv" {
		name := fmt.Sprintf("Mapa_Final_%s.csv", year)
		return api.serveCSV(ctx, name, func() error {
			return reportsvc.WriteAnnualMap(ctx.Response(), rows)
		})
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) serveCSV(ctx echo.Context, filename string, write func() error) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Response().WriteHeader(http.StatusOK)
	return write()
}
