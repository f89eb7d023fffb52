package models

import "time"

// Customer is a cleaned customer record. RegistrationDate and CustomerDays
// are nil when the source date failed to parse; the row is still kept.
type Customer struct {
	CustomerID       string     `gorm:"column:customer_id;primaryKey"`
	CustomerName     string     `gorm:"column:customer_name;not null"`
	Email            *string    `gorm:"column:email"`
	RegistrationDate *time.Time `gorm:"column:registration_date;type:date"`
	Region           string     `gorm:"column:region;not null"`
	CustomerDays     *int       `gorm:"column:customer_days"`

	// IsEmailValid is derived during cleaning for reporting; it is not
	// part of the persisted schema.
	IsEmailValid bool `gorm:"-"`
}

func (Customer) TableName() string { return "customers" }
