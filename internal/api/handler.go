package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/ledgercore/accounting-server/internal/service"
	"github.com/ledgercore/accounting-server/internal/utils"
)

// Handler wires the service operations onto HTTP routes.
type Handler struct {
	svc    service.Service
	logger *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, logger *utils.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/charts", h.CreateChart)
		api.GET("/charts", h.ListCharts)
		api.POST("/accounts", h.CreateAccount)
		api.POST("/accounts/bulk", h.BulkCreateAccounts)
		api.GET("/accounts/:id", h.GetAccount)
		api.GET("/accounts/:id/ledger", h.GetLedger)
		api.GET("/balance-sheet", h.GetBalanceSheet)
		api.POST("/journals", h.PostJournal)
	}
}

func (h *Handler) CreateChart(c *gin.Context) {
	var req models.CreateChartRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.CreateChart(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListCharts(c *gin.Context) {
	resp, err := h.svc.ListChartsWithAccounts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) BulkCreateAccounts(c *gin.Context) {
	var req models.BulkCreateAccountsRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.BulkCreateAccounts(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetAccount(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetLedger(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetLedger(c.Request.Context(), id, c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetBalanceSheet(c *gin.Context) {
	asOf := c.Query("asOf")
	if asOf == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: "asOf query parameter is required",
		})
		return
	}

	resp, err := h.svc.GetBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PostJournal(c *gin.Context) {
	var req models.PostJournalRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.PostJournal(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Helper methods
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: "id must be an integer",
		})
		return 0, false
	}
	return id, true
}

// writeError maps the domain error taxonomy onto HTTP statuses. Validation
// failures are per-request rejections; integrity failures are reported
// loudly but leave the process serving.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var integrityErr *models.IntegrityError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_FAILED",
			Message: validationErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: notFoundErr.Error(),
		})
	case errors.As(err, &integrityErr):
		h.logger.Error("integrity violation: %v", integrityErr)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTEGRITY_ERROR",
			Message: integrityErr.Error(),
		})
	default:
		h.logger.Error("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		})
	}
}
