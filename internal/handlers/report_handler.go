package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kasku/internal/errors"
	"kasku/internal/services"
)

// ReportHandler handles report-related requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport handles the retrieval of a monthly report
// @Summary     Get monthly report
// @Description Get the aggregated report for one calendar month. Defaults to the current month.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.MonthlyReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()
	month := now.Month()
	year := now.Year()

	if v := c.Query("month"); v != "" {
		m, parseErr := strconv.Atoi(v)
		if parseErr != nil || m < 1 || m > 12 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12"))
			return
		}
		month = time.Month(m)
	}
	if v := c.Query("year"); v != "" {
		y, parseErr := strconv.Atoi(v)
		if parseErr != nil || y < 1970 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
			return
		}
		year = y
	}

	report, err := h.reportService.MonthlyReport(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetTrendReport handles the retrieval of a trend report
// @Summary     Get trend report
// @Description Get income/expense trend buckets over a date range. Every bucket in the range is returned, including empty ones. Defaults to the last 6 months.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       granularity query string false "Bucket size (weekly, monthly; default monthly)"
// @Param       from_date   query string false "Start of range (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "End of range (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.TrendReport "Trend report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetTrendReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	granularity := services.TrendMonthly
	if v := c.Query("granularity"); v != "" {
		switch services.TrendGranularity(v) {
		case services.TrendWeekly, services.TrendMonthly:
			granularity = services.TrendGranularity(v)
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "granularity must be weekly or monthly"))
			return
		}
	}

	now := time.Now()
	from := now.AddDate(0, -6, 0)
	to := now

	if v := c.Query("from_date"); v != "" {
		t, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		from = t
	}
	if v := c.Query("to_date"); v != "" {
		t, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		to = t
	}

	report, err := h.reportService.Trend(userID, granularity, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetComparisonReport handles the retrieval of a month-over-month comparison
// @Summary     Get comparison report
// @Description Compare the current calendar month against the previous one
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ComparisonReport "Comparison report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/comparison [get]
func (h *ReportHandler) GetComparisonReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Comparison(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
