package users

import "time"

type User struct {
	ID               string  `gorm:"primaryKey"`
	Email            string  `gorm:"size:320;not null;uniqueIndex:idx_users_email"`
	StripeCustomerID *string `gorm:"column:stripe_customer_id;size:255;uniqueIndex:idx_users_stripe_customer_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
