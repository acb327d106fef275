package model

type Customer struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`
}

// WalkInCustomerName is reported in notifications when a sale has no
// customer reference.
const WalkInCustomerName = "Walk-in customer"
