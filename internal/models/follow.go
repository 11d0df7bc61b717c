package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: UserID follows AuthorID.
type Follow struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author" json:"-"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author;index" json:"-"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
	}
}
