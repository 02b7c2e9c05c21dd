package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a physical shop item. Prices are dollars; SizePrices
// optionally overrides the base price per variant size.
type Product struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	Name              string         `json:"name"`
	Slug              string         `gorm:"uniqueIndex" json:"slug"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Price             float64        `json:"price"`
	SizePrices        datatypes.JSON `json:"sizePrices,omitempty"`
	Stock             int            `json:"stock"`
	InStock           bool           `json:"inStock"`
	LowStockThreshold int            `json:"lowStockThreshold"`
	Hidden            bool           `json:"hidden"`
	ImageURL          string         `json:"imageUrl"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// ServiceOffering is a bookable healing service.
type ServiceOffering struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Duration    string    `json:"duration"`
	Hidden      bool      `json:"hidden"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ServiceOffering) TableName() string {
	return "service_offerings"
}

// Class is a recurring or scheduled group session.
type Class struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Schedule    string    `json:"schedule"`
	Capacity    int       `json:"capacity"`
	Hidden      bool      `json:"hidden"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Class) TableName() string {
	return "classes"
}

// Retreat is a multi-day offsite event.
type Retreat struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Capacity    int        `json:"capacity"`
	Hidden      bool       `json:"hidden"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Retreat) TableName() string {
	return "retreats"
}

// Fundraiser is a community donation campaign.
type Fundraiser struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	GoalAmount   int64     `json:"goalAmountCents"`
	RaisedAmount int64     `json:"raisedAmountCents"`
	Active       bool      `json:"active"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Fundraiser) TableName() string {
	return "fundraisers"
}
