package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paydown/internal/errors"
	"paydown/internal/pagination"
	"paydown/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	accountService     services.AccountServicer
	transactionService services.TransactionServicer
	transferService    services.TransferServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	accountService services.AccountServicer,
	transactionService services.TransactionServicer,
	transferService services.TransferServicer,
	auditService services.AuditServicer,
) *TransactionHandler {
	return &TransactionHandler{
		accountService:     accountService,
		transactionService: transactionService,
		transferService:    transferService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the transaction creation payload
type CreateTransactionRequest struct {
	AccountID   uint      `json:"account_id" binding:"required"`
	BudgetID    *uint     `json:"budget_id"`
	Amount      int64     `json:"amount" binding:"required"`
	Description string    `json:"description" binding:"required,max=500"`
	Category    string    `json:"category" binding:"max=100"`
	Date        time.Time `json:"date"`
}

// CreateTransaction posts a transaction. When the transaction is recognized as
// a credit card payment from a depository account, the full payment automation
// runs instead: both legs are posted and the budget transfer recorded.
// @Summary     Create a transaction
// @Description Post a transaction; credit card payments trigger the automated two-leg transfer
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	account, err := h.accountService.GetAccountByID(userID, req.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leg := services.TransferLeg{
		AccountID:   req.AccountID,
		BudgetID:    req.BudgetID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	}

	transfer, automated, err := h.transferService.AutomateIfPayment(userID, account, leg)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if automated {
		h.auditService.Log(userID, "CREATE", "credit_card_transfer", transfer.Transfer.ID, c.ClientIP(), map[string]any{
			"amount": req.Amount,
		})
		c.JSON(http.StatusCreated, gin.H{
			"transaction": transfer.CheckingTransaction,
			"automation":  transfer,
		})
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.AccountID, req.BudgetID, req.Amount, req.Description, req.Category, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetAccountTransactions lists transactions for one account
// @Summary     List account transactions
// @Description Get a paginated, filterable list of transactions for an account
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Param       from_date query string false "Start date (RFC 3339)"
// @Param       to_date query string false "End date (RFC 3339)"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetAccountTransactions(userID, accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransaction returns a single transaction
// @Summary     Get transaction
// @Description Get a single transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction deletes a transaction, reversing its balance and budget effects
// @Summary     Delete transaction
// @Description Delete a transaction and reverse its account balance and budget spent effects
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	if raw := c.Query("from_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &t
	}
	if raw := c.Query("to_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &t
	}
	return filter, nil
}
