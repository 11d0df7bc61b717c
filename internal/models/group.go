package models

type Group struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g *Group) String() string {
	return g.Title
}
