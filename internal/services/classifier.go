package services

import (
	"strings"

	"paydown/internal/models"
)

// PaymentClassifier decides whether a transaction is a credit card payment.
// Implementations must be pure: no storage or network calls, identical
// inputs always produce identical results. The transfer engine and progress
// tracker depend only on this boolean contract, so the keyword heuristic can
// be swapped (e.g. for a merchant-ID lookup) without touching either.
type PaymentClassifier interface {
	IsCreditCardPayment(tx *models.Transaction, source *models.Account, debtAccountNames []string) bool
}

// KeywordClassifier classifies payments with case-insensitive substring
// heuristics over the transaction's category and description. Brittle by
// nature; it matches the observed behavior of the matching rules it replaces.
type KeywordClassifier struct{}

// NewKeywordClassifier returns the default PaymentClassifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// IsCreditCardPayment reports whether tx, posted against source, looks like
// the depository leg of a credit card payment. A zero-amount transaction
// never qualifies, and neither does one whose source is itself a credit
// account (that is the destination of a payment, not the source).
func (k *KeywordClassifier) IsCreditCardPayment(tx *models.Transaction, source *models.Account, debtAccountNames []string) bool {
	if tx == nil || source == nil {
		return false
	}
	if tx.Amount >= 0 {
		return false
	}
	if !source.Type.IsDepository() {
		return false
	}

	category := strings.ToLower(tx.Category)
	if strings.Contains(category, "credit card") || strings.Contains(category, "payment") {
		return true
	}

	description := strings.ToLower(tx.Description)
	if strings.Contains(description, "credit card") {
		return true
	}
	if strings.HasPrefix(description, "payment to:") || strings.HasPrefix(description, "payment:") {
		return true
	}

	for _, name := range debtAccountNames {
		if name == "" {
			continue
		}
		if strings.Contains(description, strings.ToLower(name)) {
			return true
		}
	}

	return false
}
