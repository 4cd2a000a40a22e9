package models

import "time"

// Comment - комментарий к посту. Удаляется вместе с постом и вместе с автором.
type Comment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID   int64     `gorm:"index;not null" json:"post_id"`
	Post     *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID int64     `gorm:"index;not null" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c Comment) String() string {
	return c.Text
}
