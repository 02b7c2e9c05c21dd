package order

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	ProviderSquare = "square"
	ProviderStripe = "stripe"
	ProviderPayPal = "paypal"
)

// LineItem is one purchased entry in the cart. Amount is the line
// total in cents. ID may carry a variant suffix for sized products.
type LineItem struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Amount   int64  `json:"amount" binding:"required,min=0"`
}

// Order is a checkout attempt. Status moves from pending to exactly
// one of completed or failed, never back.
type Order struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"uniqueIndex" json:"code"`
	CustomerEmail     string         `gorm:"index" json:"customerEmail"`
	CustomerName      string         `json:"customerName"`
	Items             datatypes.JSON `json:"items"`
	TotalAmount       int64          `json:"totalAmountCents"`
	Currency          string         `json:"currency"`
	Provider          string         `json:"provider"`
	ProviderPaymentID string         `json:"providerPaymentId,omitempty"`
	Status            string         `gorm:"index" json:"status"`
	FailureReason     string         `json:"failureReason,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
