package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgeter@example.com", "password123")

	var budgetID float64
	t.Run("create envelope", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/budgets",
			`{"name":"Groceries","category":"Groceries","month":"2024-03","budgeted":40000}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budgetID = result["id"].(float64)
		if result["month"] != "2024-03" {
			t.Errorf("month = %v, want 2024-03", result["month"])
		}
	})

	t.Run("invalid month key", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/budgets",
			`{"name":"Dining","category":"Dining","month":"March 2024","budgeted":10000}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("budgeted spending tracks against the envelope", func(t *testing.T) {
		accountID := app.createAccount(t, token,
			`{"name":"Checking","account_type":"checking","initial_balance":100000}`)

		body := fmt.Sprintf(`{"account_id":%.0f,"budget_id":%.0f,"amount":-5000,"description":"Whole Foods","category":"Groceries"}`,
			accountID, budgetID)
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["spent"].(float64) != 5000 {
			t.Errorf("spent = %v, want 5000", result["spent"])
		}
	})

	t.Run("month filter", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/budgets",
			`{"name":"Groceries","category":"Groceries","month":"2024-04","budgeted":40000}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/budgets?month=2024-03", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("total_items = %v, want 1 for 2024-03", result["total_items"])
		}
	})

	t.Run("budgets are user scoped", func(t *testing.T) {
		otherToken, _, _ := app.registerUser(t, "other@example.com", "password123")
		rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", otherToken)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404 for another user's budget", rec.Code)
		}
	})
}
