package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/search"
	"github.com/tunestream/tunestream/internal/upstream"
)

func (s *Server) doSearch(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	result, err := s.searchService.Search(ctx, query, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "query parameter 'q' is required"})
		case errors.Is(err, upstream.ErrNotConnected):
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "music server is not connected"})
		default:
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) getHistory(c echo.Context) error {
	ctx := c.Request().Context()

	opts := history.ListOptions{
		Page:     queryInt(c, "page", 0),
		PageSize: queryInt(c, "pageSize", 0),
	}

	resp, err := s.historyService.List(ctx, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) clearHistory(c echo.Context) error {
	if err := s.historyService.Clear(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
