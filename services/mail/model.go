package mail

import "time"

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	CategoryReceipt  = "receipt"
	CategoryLowStock = "low_stock"
	CategoryManual   = "manual"
	CategoryBulk     = "bulk"
)

// EmailLog records every delivery attempt, successful or not.
type EmailLog struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Category   string    `gorm:"index" json:"category"`
	Status     string    `json:"status"`
	ProviderID string    `json:"providerId,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
