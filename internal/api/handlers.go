package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"prenoms/internal/models"
	"prenoms/internal/views"
)

const defaultTopNames = 50

type Handler struct {
	views     *views.Builder
	rankDepth int
}

// NewHandler serves views from b. rankDepth is the k used when a ranking
// request does not set one.
func NewHandler(b *views.Builder, rankDepth int) *Handler {
	return &Handler{views: b, rankDepth: rankDepth}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/ranking", h.GetRanking)
	api.GET("/choropleth/:year", h.GetChoropleth)
	api.GET("/wordcloud/:year", h.GetWordCloud)
	api.GET("/names/top/:year", h.GetTopNames)
	api.GET("/years", h.GetYears)
	api.GET("/departments", h.GetDepartments)
}

// --- HELPERS ---

// toHTTPError maps the error taxonomy onto status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, models.ErrConfig):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotLoaded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data is loading, retry shortly")
	}
	return err
}

func intParam(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	stats, err := h.views.Stats()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"load":   stats,
	})
}

// GetRanking serves the bar race. Query: sex, departments (comma separated),
// year_min, year_max, k, direction.
func (h *Handler) GetRanking(c echo.Context) error {
	sex, ok := models.ParseSex(c.QueryParam("sex"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "sex must be All, Male or Female")
	}
	dir, ok := models.ParseDirection(c.QueryParam("direction"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "direction must be most or least")
	}

	q := views.RankingQuery{Sex: sex, Direction: dir}
	var err error
	if q.K, err = intParam(c.QueryParam("k"), "k", h.rankDepth); err != nil {
		return err
	}
	if q.YearMin, err = intParam(c.QueryParam("year_min"), "year_min", 0); err != nil {
		return err
	}
	if q.YearMax, err = intParam(c.QueryParam("year_max"), "year_max", 0); err != nil {
		return err
	}
	if raw := c.QueryParam("departments"); raw != "" && raw != views.AllDepartments {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				q.Departments = append(q.Departments, d)
			}
		}
	}

	view, err := h.views.Ranking(q)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetChoropleth(c echo.Context) error {
	year, err := intParam(c.Param("year"), "year", 0)
	if err != nil {
		return err
	}
	view, err := h.views.Choropleth(year)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetWordCloud serves one (department, year) cell. department defaults to all.
func (h *Handler) GetWordCloud(c echo.Context) error {
	year, err := intParam(c.Param("year"), "year", 0)
	if err != nil {
		return err
	}
	view, err := h.views.WordCloud(c.QueryParam("department"), year)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":    view,
		"no_data": view.Empty(),
	})
}

func (h *Handler) GetTopNames(c echo.Context) error {
	year, err := intParam(c.Param("year"), "year", 0)
	if err != nil {
		return err
	}
	limit, err := intParam(c.QueryParam("limit"), "limit", defaultTopNames)
	if err != nil {
		return err
	}
	table, err := h.views.TopNames(year, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, table)
}

func (h *Handler) GetYears(c echo.Context) error {
	years, err := h.views.Years()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, years)
}

func (h *Handler) GetDepartments(c echo.Context) error {
	depts, err := h.views.Departments()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, depts)
}
