package models

import "time"

type User struct {
	ID           string
	UserName     string
	DisplayName  string
	PasswordHash []byte
	CreatedAt    time.Time
}
