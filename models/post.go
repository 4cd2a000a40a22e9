package models

import "time"

// Post - запись пользователя.
// PubDate выставляется один раз при создании и больше не меняется.
type Post struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID *int64    `gorm:"index" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author"`
	GroupID  *int64    `gorm:"index" json:"-"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

func (p Post) String() string {
	return p.Text
}

// IsAuthoredBy - является ли пользователь автором поста.
// У поста без автора (автор удален) редакторов нет.
func (p Post) IsAuthoredBy(userID int64) bool {
	return p.AuthorID != nil && *p.AuthorID == userID
}
