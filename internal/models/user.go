package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxBioLength      = 500
	MaxLocationLength = 30
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName mirrors how the author is shown on post cards.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) String() string {
	return u.Username
}

// Profile is created together with its User and is only editable by that user.
type Profile struct {
	ID        uint       `gorm:"primarykey" json:"-"`
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`
	Bio       string     `gorm:"size:500" json:"bio"`
	Location  string     `gorm:"size:30" json:"location"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Photo     string     `gorm:"size:255" json:"photo"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// ProtectEmail masks the local part of an address, keeping its first letter.
func ProtectEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", 5) + email[at:]
}
