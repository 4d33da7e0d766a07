package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paydown/internal/errors"
	"paydown/internal/models"
	"paydown/internal/services"
)

// DebtPlanHandler handles debt payoff plan requests.
type DebtPlanHandler struct {
	planService  services.PlanServicer
	auditService services.AuditServicer
}

// NewDebtPlanHandler creates a new DebtPlanHandler.
func NewDebtPlanHandler(planService services.PlanServicer, auditService services.AuditServicer) *DebtPlanHandler {
	return &DebtPlanHandler{planService: planService, auditService: auditService}
}

// CreatePlanRequest represents the plan generation payload
type CreatePlanRequest struct {
	Strategy     string `json:"strategy" binding:"required,payoff_strategy"`
	ExtraPayment int64  `json:"extra_payment" binding:"min=0"`
	AutoTrack    *bool  `json:"auto_track"`
}

// RecordPaymentRequest represents a manual payment record payload
type RecordPaymentRequest struct {
	Amount     int64     `json:"amount" binding:"required"`
	TargetDebt string    `json:"target_debt" binding:"max=255"`
	Date       time.Time `json:"date"`
}

// GetActivePlan returns the user's active plan, or null when none exists
// @Summary     Get active plan
// @Description Get the user's active debt payoff plan with derived progress, or null if none exists
// @Tags        debt-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PlanDetail "Active plan, or null"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debt-plans/active [get]
func (h *DebtPlanHandler) GetActivePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.planService.GetActivePlan(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// No active plan is not an error: clients poll this endpoint to decide
	// whether to offer plan creation.
	c.JSON(http.StatusOK, detail)
}

// CreatePlan generates and activates a payoff plan
// @Summary     Create payoff plan
// @Description Generate a payoff plan from the user's credit accounts, superseding any existing active plan
// @Tags        debt-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePlanRequest true "Plan parameters"
// @Success     201 {object} services.PlanDetail "Plan created"
// @Failure     400 {object} ErrorResponse "Invalid input or no debts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debt-plans [post]
func (h *DebtPlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	autoTrack := true
	if req.AutoTrack != nil {
		autoTrack = *req.AutoTrack
	}

	detail, err := h.planService.CreatePlan(userID, models.PayoffStrategy(req.Strategy), req.ExtraPayment, autoTrack)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE", "debt_plan", detail.Plan.ID, c.ClientIP(), map[string]any{
		"strategy":      req.Strategy,
		"extra_payment": req.ExtraPayment,
	})

	c.JSON(http.StatusCreated, detail)
}

// CompareStrategies simulates both strategies against the user's debts
// @Summary     Compare strategies
// @Description Simulate snowball and avalanche payoff for the same debt set and extra payment
// @Tags        debt-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       extra_payment query int false "Extra monthly payment in cents" default(0)
// @Success     200 {object} services.StrategyComparison "Comparison"
// @Failure     400 {object} ErrorResponse "Invalid input or no debts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debt-plans/compare [get]
func (h *DebtPlanHandler) CompareStrategies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	extraPayment := int64(0)
	if raw := c.Query("extra_payment"); raw != "" {
		extraPayment, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || extraPayment < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid extra_payment"))
			return
		}
	}

	comparison, err := h.planService.CompareStrategies(userID, extraPayment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// DeletePlan removes a plan and its recorded payments
// @Summary     Delete plan
// @Description Delete a payoff plan and all of its recorded payments
// @Tags        debt-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan ID"
// @Success     200 {object} MessageResponse "Plan deleted"
// @Failure     400 {object} ErrorResponse "Invalid plan ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debt-plans/{id} [delete]
func (h *DebtPlanHandler) DeletePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.planService.DeletePlan(userID, planID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE", "debt_plan", planID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// RecordPayment records a manual payment against a plan
// @Summary     Record plan payment
// @Description Record a manual payment against a plan that is not auto-tracked
// @Tags        debt-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan ID"
// @Param       request body RecordPaymentRequest true "Payment data"
// @Success     200 {object} services.PlanDetail "Updated plan"
// @Failure     400 {object} ErrorResponse "Invalid input or auto-tracked plan"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debt-plans/{id}/payments [post]
func (h *DebtPlanHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	detail, err := h.planService.RecordPayment(userID, planID, req.Amount, req.TargetDebt, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE", "plan_payment", planID, c.ClientIP(), map[string]any{
		"amount": req.Amount,
	})

	c.JSON(http.StatusOK, detail)
}
