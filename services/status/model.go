package status

import "time"

// Check is a client-submitted heartbeat used by the frontend to verify
// end-to-end connectivity through the API and database.
type Check struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	ClientName string    `json:"clientName"`
	CreatedAt  time.Time `json:"timestamp"`
}

func (Check) TableName() string {
	return "status_checks"
}
