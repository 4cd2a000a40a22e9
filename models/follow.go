package models

// Follow - подписка UserID на автора AuthorID.
// На уровне БД: пара (user_id, author_id) уникальна, подписка на себя запрещена.
type Follow struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64 `gorm:"not null;uniqueIndex:unique_users;check:self_subscription_not_allowed,user_id <> author_id" json:"user_id"`
	User     *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID int64 `gorm:"not null;uniqueIndex:unique_users;index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
