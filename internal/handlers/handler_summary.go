package handlers

import (
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// summaryHandler exposes the balance and monthly summaries.
type summaryHandler struct {
	summaryService portssvc.SummarySvc
}

func newSummaryHandler(ss portssvc.SummarySvc) *summaryHandler {
	return &summaryHandler{summaryService: ss}
}

// registerSummaryRoutes registers routes related to summaries.
func registerSummaryRoutes(rg *gin.RouterGroup, ss portssvc.SummarySvc) {
	h := newSummaryHandler(ss)

	summary := rg.Group("/summary")
	{
		summary.GET("", h.getSummary)
		summary.GET("/monthly", h.getMonthlySummary)
	}
}

// getSummary godoc
// @Summary Summarize the filtered ledger
// @Description Per-kind totals split by completion state plus the derived balances, under the same filter semantics as the ledger listing
// @Tags summary
// @Produce json
// @Param type query string false "entry or exit"
// @Param category query string false "Category"
// @Param completed query string false "all, true or false"
// @Param title query string false "Title substring (case-insensitive)"
// @Param startDate query string false "Inclusive start date (ISO)"
// @Param endDate query string false "Inclusive end date (ISO)"
// @Success 200 {object} domain.Summary
// @Failure 502 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /summary [get]
func (h *summaryHandler) getSummary(c *gin.Context) {
	var filterReq dto.TransactionFilterRequest
	_ = c.ShouldBindQuery(&filterReq)

	summary, err := h.summaryService.Summarize(c.Request.Context(), filterReq.Normalize())
	if err != nil {
		respondServiceError(c, err, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getMonthlySummary godoc
// @Summary Summarize one calendar month
// @Description Month-scoped realized totals and pending backlog plus the all-time completed balance
// @Tags summary
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 502 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /summary/monthly [get]
func (h *summaryHandler) getMonthlySummary(c *gin.Context) {
	now := time.Now()
	year := intQuery(c, "year", now.Year())

	// An absent month means the current one; anything present must parse
	// and land in 1..12.
	month := int(now.Month())
	if raw := c.Query("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be between 1 and 12"})
			return
		}
		month = n
	}

	summary, err := h.summaryService.SummarizeMonth(c.Request.Context(), year, time.Month(month))
	if err != nil {
		respondServiceError(c, err, "Failed to compute monthly summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
