package appointment

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a booked service slot.
type Appointment struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	CustomerEmail string    `gorm:"index" json:"customerEmail"`
	CustomerName  string    `json:"customerName"`
	ServiceID     string    `json:"serviceId"`
	ServiceName   string    `json:"serviceName"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	Status        string    `gorm:"index" json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// EmergencyRequest is an urgent help request submitted outside the
// normal booking flow.
type EmergencyRequest struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Message    string     `json:"message"`
	Urgency    string     `json:"urgency"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (EmergencyRequest) TableName() string {
	return "emergency_requests"
}
