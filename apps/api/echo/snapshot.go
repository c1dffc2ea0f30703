package echoapi

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

type snapshotApi struct {
	store *attendance.Store
}

func registerSnapshotAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := snapshotApi{store: store}

	sg := g.Group("/snapshot", gate)
	sg.GET("", api.export)
	sg.POST("", api.doImport)
}

// Handlers

// export downloads the full Database; the payload is exactly what import
// accepts back.
func (api *snapshotApi) export(ctx echo.Context) error {
	data, err := api.store.ExportSnapshot()
	if err != nil {
		return errors.Wrap(err, "exporting snapshot")
	}
	name := fmt.Sprintf("backup_completo_%s.json", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

func (api *snapshotApi) doImport(ctx echo.Context) error {
	data, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading import payload")
	}
	if err := api.store.ImportSnapshot(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": "Dados importados com sucesso!"})
}
