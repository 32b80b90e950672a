package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/ascaixa/treasury-backend/internal/middleware"
	"github.com/ascaixa/treasury-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles the unified ledger and the transaction
// lifecycle.
type transactionHandler struct {
	ledgerService      portssvc.LedgerSvc
	transactionService portssvc.TransactionSvc
	defaultPageLimit   int
}

func newTransactionHandler(ls portssvc.LedgerSvc, ts portssvc.TransactionSvc, defaultPageLimit int) *transactionHandler {
	if defaultPageLimit < 1 {
		defaultPageLimit = 30
	}
	return &transactionHandler{ledgerService: ls, transactionService: ts, defaultPageLimit: defaultPageLimit}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, cfg *config.Config, ls portssvc.LedgerSvc, ts portssvc.TransactionSvc) {
	h := newTransactionHandler(ls, ts, cfg.DefaultPageLimit)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:kind/:id", h.getTransaction)

		admin := transactions.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createTransaction)
			admin.PATCH("/:kind/:id", h.updateTransaction)
			admin.DELETE("/:kind/:id", h.deleteTransaction)
			admin.POST("/:kind/:id/complete", h.markCompleted)
			admin.POST("/:kind/:id/pending", h.markPending)
		}
	}
}

// parseKind reads the :kind path parameter.
func parseKind(c *gin.Context) (domain.Kind, bool) {
	kind := domain.Kind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction kind must be entry or exit"})
		return "", false
	}
	return kind, true
}

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrTransport), errors.Is(err, apperrors.ErrPartialFailure):
		logger.Error("Store failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// intQuery parses a positive integer query parameter, falling back on the
// default when absent or malformed.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// listTransactions godoc
// @Summary List the unified ledger
// @Description Returns one page of the merged, filtered, time-ordered ledger of entries and exits
// @Tags transactions
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param type query string false "entry or exit"
// @Param category query string false "Category"
// @Param completed query string false "all, true or false"
// @Param title query string false "Title substring (case-insensitive)"
// @Param minAmount query string false "Minimum amount"
// @Param maxAmount query string false "Maximum amount"
// @Param startDate query string false "Inclusive start date (ISO)"
// @Param endDate query string false "Inclusive end date (ISO)"
// @Success 200 {object} dto.TransactionPageResponse
// @Failure 502 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	// Malformed filter input is degraded to "no constraint", never rejected.
	var filterReq dto.TransactionFilterRequest
	_ = c.ShouldBindQuery(&filterReq)

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", h.defaultPageLimit)

	result, err := h.ledgerService.List(c.Request.Context(), filterReq.Normalize(), page, limit)
	if err != nil {
		respondServiceError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionPageResponse(result))
}

// createTransaction godoc
// @Summary Record a new transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.transactionService.Create(c.Request.Context(), domain.Kind(req.Kind), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(created))
}

// getTransaction godoc
// @Summary Get a transaction by kind and ID
// @Tags transactions
// @Produce json
// @Param kind path string true "entry or exit"
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /transactions/{kind}/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Partially update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param kind path string true "entry or exit"
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /transactions/{kind}/{id} [patch]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	kind, ok := parseKind(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.transactionService.Update(c.Request.Context(), kind, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(updated))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param kind path string true "entry or exit"
// @Param id path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /transactions/{kind}/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// markCompleted godoc
// @Summary Confirm a pending transaction
// @Tags transactions
// @Produce json
// @Param kind path string true "entry or exit"
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{kind}/{id}/complete [post]
func (h *transactionHandler) markCompleted(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	updated, err := h.transactionService.MarkCompleted(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to confirm transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(updated))
}

// markPending godoc
// @Summary Revert a transaction to pending
// @Tags transactions
// @Produce json
// @Param kind path string true "entry or exit"
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{kind}/{id}/pending [post]
func (h *transactionHandler) markPending(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	updated, err := h.transactionService.MarkPending(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to revert transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(updated))
}
