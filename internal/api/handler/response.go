package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// ErrorResponse is the error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// dataResponse is the success envelope.
type dataResponse struct {
	Data    any       `json:"data"`
	Meta    *pageMeta `json:"meta,omitempty"`
	Filters any       `json:"filters,omitempty"`
}

type pageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, dataResponse{Data: data})
}

func respondPage[T any](c echo.Context, status int, res *ports.ListResult[T], filters any) error {
	return c.JSON(status, dataResponse{
		Data: res.Items,
		Meta: &pageMeta{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
		Filters: filters,
	})
}

func toPage(page, limit int) ports.Page {
	return ports.Page{Page: page, Limit: limit}.Normalize()
}
