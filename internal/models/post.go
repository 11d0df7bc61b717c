package models

import (
	"time"

	"github.com/google/uuid"
)

// ShortTextLength is how many characters of a post or comment its string form keeps.
const ShortTextLength = 15

// LastCommentsCount is how many newest comments a feed card shows.
const LastCommentsCount = 3

type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	// Likes always equals len(Likers); only the like service writes either.
	Likes    int       `gorm:"not null;default:0" json:"likes"`
	Likers   []User    `gorm:"many2many:post_likes;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (p *Post) String() string {
	return truncate(p.Text, ShortTextLength)
}

// IsLikedBy reports whether userID is among the preloaded likers.
func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	for _, u := range p.Likers {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// LastComments returns the newest comments, newest first. Comments must be
// loaded newest first.
func (p *Post) LastComments() []Comment {
	if len(p.Comments) <= LastCommentsCount {
		return p.Comments
	}
	return p.Comments[:LastCommentsCount]
}

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (c *Comment) String() string {
	return truncate(c.Text, ShortTextLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
