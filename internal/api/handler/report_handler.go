package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/api/metrics"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

const dateLayout = "2006-01-02"

// ReportHandler serves the date-ranged rollups.
type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get handles GET /v1/reports?from=YYYY-MM-DD&to=YYYY-MM-DD. Both endpoints
// are inclusive.
//
// @Summary      Generate a date-ranged activity and collections report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD), inclusive"
// @Success      200   {object}  ports.Report
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/reports [get]
func (h *ReportHandler) Get(c echo.Context) error {
	from, err := time.Parse(dateLayout, c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be a date in YYYY-MM-DD format")
	}
	to, err := time.Parse(dateLayout, c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be a date in YYYY-MM-DD format")
	}

	start := time.Now()
	report, err := h.reports.Generate(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	metrics.ReportDurationSeconds.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, report)
}
