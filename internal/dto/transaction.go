package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines data for recording a cash transaction.
type CreateTransactionRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	Type       string          `json:"type" binding:"required,oneof=RENTAL_INCOME OPERATING_EXPENSE"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	Label      string          `json:"label"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Year      int    `form:"year"` // 0 means all years
	Type      string `form:"type" binding:"omitempty,oneof=RENTAL_INCOME OPERATING_EXPENSE"`
	Limit     int    `form:"limit,default=50"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	PropertyID    string          `json:"propertyID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Label         string          `json:"label"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		PropertyID:    txn.PropertyID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		Date:          txn.Date,
		Label:         txn.Label,
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
	}
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"` // Nil when this is the last page
}

// ToListTransactionsResponse converts a page of domain.Transaction to DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken string) ListTransactionsResponse {
	list := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		list[i] = ToTransactionResponse(&txn)
	}
	resp := ListTransactionsResponse{Transactions: list}
	if nextToken != "" {
		resp.NextToken = &nextToken
	}
	return resp
}

// YearCashTotalsResponse defines one year's aggregated cash totals.
type YearCashTotalsResponse struct {
	Year              int             `json:"year"`
	RentalIncome      decimal.Decimal `json:"rentalIncome"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
}

// ListYearCashTotalsResponse wraps per-year totals for an entity.
type ListYearCashTotalsResponse struct {
	EntityID string                   `json:"entityID"`
	Years    []YearCashTotalsResponse `json:"years"`
}

// ToListYearCashTotalsResponse converts domain totals to DTO.
func ToListYearCashTotalsResponse(entityID string, totals []domain.YearCashTotals) ListYearCashTotalsResponse {
	years := make([]YearCashTotalsResponse, len(totals))
	for i, t := range totals {
		years[i] = YearCashTotalsResponse{
			Year:              t.Year,
			RentalIncome:      t.RentalIncome,
			OperatingExpenses: t.OperatingExpenses,
		}
	}
	return ListYearCashTotalsResponse{EntityID: entityID, Years: years}
}
