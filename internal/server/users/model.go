package users

import "time"

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
