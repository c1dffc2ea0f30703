package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core"
	"github.com/chamadasimples/chamada/core/attendance"
)

type sessionApi struct {
	store *attendance.Store
}

func registerSessionAPI(g *echo.Group, gate echo.MiddlewareFunc, store *attendance.Store) {
	api := sessionApi{store: store}

	sg := g.Group("/session")

	// un-authed endpoints
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", gate)
	ag.GET("", api.retrieve)
	ag.PUT("", api.update)
	ag.DELETE("", api.logout)
}

type loginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr *loginRequest) Validate() error {
	lr.Name = core.CleanString(lr.Name)
	return core.Validate.Struct(lr)
}

// profileResponse is the session record without the stored password.
type profileResponse struct {
	TeacherName    string `json:"teacherName"`
	SchoolName     string `json:"schoolName"`
	Email          string `json:"email"`
	DefaultSubject string `json:"defaultSubject"`
	IsRegistered   bool   `json:"isRegistered"`
	IsLoggedIn     bool   `json:"isLoggedIn"`
}

func newProfileResponse(p attendance.Profile) profileResponse {
	return profileResponse{
		TeacherName:    p.TeacherName,
		SchoolName:     p.SchoolName,
		Email:          p.Email,
		DefaultSubject: p.DefaultSubject,
		IsRegistered:   p.IsRegistered,
		IsLoggedIn:     p.IsLoggedIn,
	}
}

// Handlers

func (api *sessionApi) register(ctx echo.Context) error {
	var data attendance.Registration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}
	if err := api.store.Register(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newProfileResponse(api.store.Profile()))
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	// failures stay generic: no unknown-user vs wrong-password distinction
	if err := api.store.Login(data.Name, data.Password); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newProfileResponse(api.store.Profile()))
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, newProfileResponse(api.store.Profile()))
}

func (api *sessionApi) update(ctx echo.Context) error {
	var data attendance.ProfileUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileUpdate")
	}
	if err := api.store.UpdateProfile(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newProfileResponse(api.store.Profile()))
}

func (api *sessionApi) logout(ctx echo.Context) error {
	api.store.Logout()
	return ctx.NoContent(http.StatusNoContent)
}
