package models

import (
	"time"

	"github.com/zenithstudio/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Mobile         string              `gorm:"type:varchar(20);index"`
	PasswordHash   string              `gorm:"type:varchar(100);not null"`
	Name           string              `gorm:"type:varchar(200)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;default:'user';index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Email:          m.Email,
		Mobile:         m.Mobile,
		PasswordHash:   m.PasswordHash,
		Name:           m.Name,
		Role:           m.Role,
		Status:         m.Status,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Mobile = u.Mobile
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
