package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "paydown/internal/errors"
	"paydown/internal/logger"
	"paydown/internal/models"
	"paydown/internal/pagination"
)

const creditCardPaymentReason = "Credit card payment automation"

// unbudgetedCategory is the envelope charged when an automated payment has
// no source budget attached.
const unbudgetedCategory = "To Be Budgeted"

// transferService implements the budget transfer engine: it posts both legs
// of a credit card payment and records the envelope move between the debited
// and credited budget categories as one atomic unit.
type transferService struct {
	db                 *gorm.DB
	accountService     AccountServicer
	budgetService      BudgetServicer
	transactionService TransactionServicer
	classifier         PaymentClassifier
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(db *gorm.DB, accountService AccountServicer, budgetService BudgetServicer, transactionService TransactionServicer, classifier PaymentClassifier) TransferServicer {
	return &transferService{
		db:                 db,
		accountService:     accountService,
		budgetService:      budgetService,
		transactionService: transactionService,
		classifier:         classifier,
	}
}

// MatchCreditCardAccount picks the payment's destination card. A card whose
// name appears in the description wins; otherwise the first listed card is
// used. The fallback is a documented best-effort heuristic, not an error.
// Returns ErrNoCreditCardAccount when the user has no cards at all.
func (s *transferService) MatchCreditCardAccount(userID uint, description string) (*models.Account, error) {
	cards, err := s.accountService.GetCreditAccounts(userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, apperrors.ErrNoCreditCardAccount
	}

	lowered := strings.ToLower(description)
	for i := range cards {
		if cards[i].Name != "" && strings.Contains(lowered, strings.ToLower(cards[i].Name)) {
			return &cards[i], nil
		}
	}
	return &cards[0], nil
}

// RecordCreditCardTransfer posts the depository outflow leg and the credit
// card inflow leg, moves the paid amount between the source envelope and the
// card's payment envelope, and writes one BudgetTransfer ledger row. All of
// it commits under a single storage transaction: a half-posted payment would
// silently corrupt the checking vs card balance invariant, so either both
// legs and the ledger row persist or none do.
func (s *transferService) RecordCreditCardTransfer(userID uint, checkingLeg, creditLeg TransferLeg) (*CreditCardTransfer, error) {
	if checkingLeg.Amount >= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "checking leg must be an outflow (negative amount)")
	}
	if creditLeg.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "credit card leg must be an inflow (positive amount)")
	}
	if -checkingLeg.Amount != creditLeg.Amount {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transfer legs must have equal magnitude")
	}

	source, err := s.accountService.GetAccountByID(userID, checkingLeg.AccountID)
	if err != nil {
		return nil, err
	}
	if !source.Type.IsDepository() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment source must be a checking, savings, or cash account")
	}

	card, err := s.accountService.GetAccountByID(userID, creditLeg.AccountID)
	if err != nil {
		return nil, err
	}
	if card.Type != models.AccountTypeCredit {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment destination must be a credit account")
	}

	date := checkingLeg.Date
	if date.IsZero() {
		date = time.Now()
	}
	amount := creditLeg.Amount
	monthKey := date.Format("2006-01")

	var result CreditCardTransfer
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Resolve the debited envelope: the caller's source budget, or the
		// unbudgeted envelope when none was attached.
		fromBudget, txErr := s.resolveBudget(tx, userID, checkingLeg.BudgetID, checkingLeg.Category, monthKey)
		if txErr != nil {
			return txErr
		}

		// The credited envelope is the card's payment envelope unless the
		// caller named one explicitly.
		toBudget, txErr := s.resolveBudget(tx, userID, creditLeg.BudgetID, fmt.Sprintf("Payment: %s", card.Name), monthKey)
		if txErr != nil {
			return txErr
		}

		// The outflow leg spends from the payment envelope; the allocation
		// move below refills it from the source envelope. Net effect: the
		// source envelope's available drops by the paid amount.
		checkingTx, txErr := s.transactionService.CreateInTx(tx, userID, source, &toBudget.ID, checkingLeg.Amount, checkingLeg.Description, checkingLeg.Category, date)
		if txErr != nil {
			return txErr
		}

		creditTx, txErr := s.transactionService.CreateInTx(tx, userID, card, nil, creditLeg.Amount, creditLeg.Description, creditLeg.Category, date)
		if txErr != nil {
			return txErr
		}

		if txErr := s.budgetService.MoveAllocation(tx, userID, fromBudget.ID, toBudget.ID, amount); txErr != nil {
			return txErr
		}

		transfer := &models.BudgetTransfer{
			UserID:        userID,
			Amount:        amount,
			Reason:        creditCardPaymentReason,
			Automated:     true,
			FromBudgetID:  fromBudget.ID,
			ToBudgetID:    toBudget.ID,
			TransactionID: &checkingTx.ID,
		}
		if txErr := tx.Create(transfer).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		result = CreditCardTransfer{
			CheckingTransaction:   checkingTx,
			CreditCardTransaction: creditTx,
			Transfer:              transfer,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("credit card transfer recorded",
		"user_id", userID,
		"transfer_ref", result.Transfer.Reference,
		"amount", amount,
		"card", card.Name,
	)
	return &result, nil
}

// AutomateCreditCardPayment turns a classified depository outflow into a full
// two-leg transfer by matching the destination card from the description.
// Callers should treat ErrNoCreditCardAccount as recoverable and fall back
// to posting a plain transaction.
func (s *transferService) AutomateCreditCardPayment(userID uint, checkingLeg TransferLeg) (*CreditCardTransfer, error) {
	card, err := s.MatchCreditCardAccount(userID, checkingLeg.Description)
	if err != nil {
		return nil, err
	}

	creditLeg := TransferLeg{
		AccountID:   card.ID,
		Amount:      -checkingLeg.Amount,
		Description: checkingLeg.Description,
		Category:    "Credit Card Payment",
		Date:        checkingLeg.Date,
	}
	return s.RecordCreditCardTransfer(userID, checkingLeg, creditLeg)
}

// AutomateIfPayment runs the classifier over a draft outflow and, when it
// looks like a credit card payment, records the full two-leg transfer.
// Returns handled=false when the draft is not a payment or when the user has
// no card to receive it; the caller then posts a plain transaction instead.
func (s *transferService) AutomateIfPayment(userID uint, source *models.Account, checkingLeg TransferLeg) (*CreditCardTransfer, bool, error) {
	cards, err := s.accountService.GetCreditAccounts(userID)
	if err != nil {
		return nil, false, err
	}

	names := make([]string, len(cards))
	for i := range cards {
		names[i] = cards[i].Name
	}

	draft := &models.Transaction{
		Amount:      checkingLeg.Amount,
		Description: checkingLeg.Description,
		Category:    checkingLeg.Category,
		Date:        checkingLeg.Date,
	}
	if !s.classifier.IsCreditCardPayment(draft, source, names) {
		return nil, false, nil
	}

	transfer, err := s.AutomateCreditCardPayment(userID, checkingLeg)
	if err != nil {
		// No destination card is a recoverable condition: the caller falls
		// back to recording the transaction without automation.
		if err == apperrors.ErrNoCreditCardAccount {
			logger.Get().Infow("payment detected but no credit card account; posting plain transaction",
				"user_id", userID)
			return nil, false, nil
		}
		return nil, false, err
	}
	return transfer, true, nil
}

// ListTransfers returns the user's transfer ledger, optionally filtered to
// the transfer triggered by one transaction, newest first.
func (s *transferService) ListTransfers(userID uint, transactionID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetTransfer], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetTransfer{}).Where("user_id = ?", userID)
	if transactionID != nil {
		base = base.Where("transaction_id = ?", *transactionID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transfers []models.BudgetTransfer
	if err := base.Preload("FromBudget").Preload("ToBudget").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transfers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// resolveBudget returns the caller-specified budget when an ID is given, or
// finds/creates the envelope for fallbackCategory otherwise.
func (s *transferService) resolveBudget(tx *gorm.DB, userID uint, budgetID *uint, fallbackCategory, month string) (*models.Budget, error) {
	if budgetID != nil {
		budget, err := s.budgetService.GetBudgetByID(userID, *budgetID)
		if err != nil {
			return nil, err
		}
		return budget, nil
	}
	if fallbackCategory == "" {
		fallbackCategory = unbudgetedCategory
	}
	return s.budgetService.FindOrCreateCategoryBudget(tx, userID, fallbackCategory, month)
}
