package models

// DeletePolicy - что происходит с зависимой записью при удалении той, на которую она ссылается
type DeletePolicy string

const (
	SetNull DeletePolicy = "SET NULL"
	Cascade DeletePolicy = "CASCADE"
)

// Relation - внешний ключ Table.Column -> Target.id
type Relation struct {
	Table  string
	Column string
	Target string
	Policy DeletePolicy
}

// Relations - все связи схемы. Автор поста - мягкая зависимость (SET NULL),
// автор комментария - жесткая (CASCADE).
var Relations = []Relation{
	{Table: "posts", Column: "author_id", Target: "users", Policy: SetNull},
	{Table: "posts", Column: "group_id", Target: "groups", Policy: SetNull},
	{Table: "comments", Column: "post_id", Target: "posts", Policy: Cascade},
	{Table: "comments", Column: "author_id", Target: "users", Policy: Cascade},
	{Table: "follows", Column: "user_id", Target: "users", Policy: Cascade},
	{Table: "follows", Column: "author_id", Target: "users", Policy: Cascade},
	{Table: "user_tokens", Column: "user_id", Target: "users", Policy: Cascade},
}

// RelationsTo возвращает связи, ссылающиеся на таблицу target
func RelationsTo(target string) []Relation {
	var res []Relation
	for _, r := range Relations {
		if r.Target == target {
			res = append(res, r)
		}
	}
	return res
}

// All - модели для автомиграции в порядке зависимостей
func All() []interface{} {
	return []interface{}{
		&Migration{}, &User{}, &UserTokens{}, &Group{}, &Post{}, &Comment{}, &Follow{},
	}
}
