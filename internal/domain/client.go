package domain

import "time"

type Client struct {
	ID             int64
	PassportNumber string
	FullName       string
	PhoneNumber    *string
	CreatedAt      time.Time
}
