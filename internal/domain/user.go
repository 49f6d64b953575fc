package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusFrozen UserStatus = "FROZEN"
	UserStatusClosed UserStatus = "CLOSED"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusFrozen, UserStatusClosed:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
}
