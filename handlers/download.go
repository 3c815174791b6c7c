package handlers

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// Download serves a stored artifact as an attachment by its storage name.
func (h *Handler) Download(c echo.Context) error {
	name := c.Param("name")
	path, err := h.files.Path(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if _, err := os.Stat(path); err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Attachment(path, name)
}
