package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the views anyone may see.
type PublicHandler struct {
	appName string
}

func NewPublicHandler(appName string) *PublicHandler {
	return &PublicHandler{appName: appName}
}

type landingResponse struct {
	View    string            `json:"view"`
	AppName string            `json:"app_name"`
	Links   map[string]string `json:"_links"`
}

// Landing handles GET /.
//
// @Summary      Landing view
// @Tags         public
// @Produce      json
// @Success      200  {object}  landingResponse
// @Router       / [get]
func (h *PublicHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, landingResponse{
		View:    "landing",
		AppName: h.appName,
		Links: map[string]string{
			"login":  "/login",
			"signup": "/signup",
			"about":  "/about",
		},
	})
}

// About handles GET /about.
//
// @Summary      About view
// @Tags         public
// @Produce      json
// @Success      200  {object}  landingResponse
// @Router       /about [get]
func (h *PublicHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, landingResponse{
		View:    "about",
		AppName: h.appName,
		Links:   map[string]string{"home": "/"},
	})
}

// NotFound is the catch-all target; the route guard redirects before it runs.
func NotFound(c echo.Context) error {
	return echo.ErrNotFound
}
