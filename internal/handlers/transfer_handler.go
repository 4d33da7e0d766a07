package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paydown/internal/errors"
	"paydown/internal/pagination"
	"paydown/internal/services"
)

// TransferHandler handles budget transfer requests.
type TransferHandler struct {
	transferService services.TransferServicer
	auditService    services.AuditServicer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer, auditService services.AuditServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService, auditService: auditService}
}

// CreditCardPaymentRequest represents an explicit credit card payment payload
type CreditCardPaymentRequest struct {
	AccountID   uint      `json:"account_id" binding:"required"`
	BudgetID    *uint     `json:"budget_id"`
	Amount      int64     `json:"amount" binding:"required,min=1"`
	Description string    `json:"description" binding:"required,max=500"`
	Category    string    `json:"category" binding:"max=100"`
	Date        time.Time `json:"date"`
}

// CreateCreditCardPayment posts a credit card payment end to end
// @Summary     Pay a credit card
// @Description Post both legs of a credit card payment and record the budget transfer atomically
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreditCardPaymentRequest true "Payment data"
// @Success     201 {object} services.CreditCardTransfer "Payment posted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     422 {object} ErrorResponse "No credit card account to pay"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transfers/credit-card [post]
func (h *TransferHandler) CreateCreditCardPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreditCardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	// The depository leg is always an outflow of the requested amount.
	leg := services.TransferLeg{
		AccountID:   req.AccountID,
		BudgetID:    req.BudgetID,
		Amount:      -req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	}

	transfer, err := h.transferService.AutomateCreditCardPayment(userID, leg)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE", "credit_card_transfer", transfer.Transfer.ID, c.ClientIP(), map[string]any{
		"amount": req.Amount,
	})

	c.JSON(http.StatusCreated, transfer)
}

// GetTransfers lists the user's budget transfers
// @Summary     List transfers
// @Description Get a paginated list of budget transfers, optionally filtered by transaction
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       transaction_id query int false "Filter by linked transaction ID"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.BudgetTransfer] "Transfers"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transfers [get]
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	var transactionID *uint
	if raw := c.Query("transaction_id"); raw != "" {
		id, err := parseQueryUint(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid transaction_id"))
			return
		}
		transactionID = &id
	}

	transfers, err := h.transferService.ListTransfers(userID, transactionID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}
