package contract

import "time"

// Template is the editable contract text for one booking type. The
// type doubles as the primary key; there is one template each for
// appointments and retreats.
type Template struct {
	Type      string    `gorm:"primaryKey" json:"type"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Template) TableName() string {
	return "contract_templates"
}

// SignedContract is a customer's signature against a template snapshot.
type SignedContract struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	TemplateType  string    `gorm:"index" json:"templateType"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `gorm:"index" json:"customerEmail"`
	Signature     string    `json:"signature"`
	Content       string    `json:"content"`
	SignedAt      time.Time `json:"signedAt"`
}

func (SignedContract) TableName() string {
	return "signed_contracts"
}

var templateTypes = map[string]bool{
	"appointment": true,
	"retreat":     true,
}
