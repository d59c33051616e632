package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/api/middleware"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// workspace returns the caller's workspace injected by the Workspace middleware.
func workspace(c echo.Context) (*service.Workspace, error) {
	ws, ok := middleware.WorkspaceFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "workspace missing")
	}
	return ws, nil
}

// confirmed reports whether the request carries ?confirm=true.
func confirmed(c echo.Context) bool {
	ok, _ := strconv.ParseBool(c.QueryParam("confirm"))
	return ok
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
