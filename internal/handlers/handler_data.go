package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/ascaixa/treasury-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dataHandler exposes store-wide stats and exports.
type dataHandler struct {
	dataService portssvc.DataSvc
}

func newDataHandler(ds portssvc.DataSvc) *dataHandler {
	return &dataHandler{dataService: ds}
}

// registerDataRoutes registers the data management routes.
func registerDataRoutes(rg *gin.RouterGroup, ds portssvc.DataSvc) {
	h := newDataHandler(ds)

	data := rg.Group("/data")
	{
		data.GET("/stats", h.getStats)
		data.GET("/export", middleware.RequireAdmin(), h.exportLedger)
	}
}

// getStats godoc
// @Summary Per-collection record counts
// @Tags data
// @Produce json
// @Success 200 {object} domain.StoreStats
// @Failure 502 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /data/stats [get]
func (h *dataHandler) getStats(c *gin.Context) {
	stats, err := h.dataService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute store stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// exportLedger godoc
// @Summary Export the full ledger
// @Description Dumps every transaction from both collections as JSON or CSV
// @Tags data
// @Produce json
// @Param format query string false "json (default) or csv"
// @Success 200 {array} dto.TransactionResponse
// @Failure 502 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /data/export [get]
func (h *dataHandler) exportLedger(c *gin.Context) {
	txns, err := h.dataService.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to export ledger")
		return
	}

	if c.DefaultQuery("format", "json") != "csv" {
		c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="ledger.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "kind", "title", "amount", "category", "completed", "createdAt", "dueDate", "confirmationDate", "lastUpdate"})
	for _, t := range txns {
		dueDate := ""
		if t.DueDate != nil {
			dueDate = t.DueDate.Format(time.RFC3339)
		}
		confirmation := ""
		if t.ConfirmationDate != nil {
			confirmation = t.ConfirmationDate.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			t.ID,
			string(t.Kind),
			t.Title,
			t.Amount.String(),
			string(t.Category),
			strconv.FormatBool(t.Completed),
			t.CreatedAt.Format(time.RFC3339),
			dueDate,
			confirmation,
			t.LastUpdate.Format(time.RFC3339),
		})
	}
	w.Flush()
}
