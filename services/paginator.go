package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// Paginator делит упорядоченную выборку из Count элементов на страницы по PerPage.
// Пустая выборка - это одна пустая страница.
type Paginator struct {
	Count   int64
	PerPage int
}

func NewPaginator(count int64, perPage int) Paginator {
	if perPage <= 0 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// PageNumber разбирает параметр page: не число или пусто - первая страница,
// меньше единицы, больше последней или вне int - последняя страница.
func (p Paginator) PageNumber(raw string) int {
	number, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return p.NumPages()
	}
	if err != nil {
		return 1
	}
	if number < 1 || number > p.NumPages() {
		return p.NumPages()
	}
	return number
}

// Bounds - смещение и размер страницы number
func (p Paginator) Bounds(number int) (offset, limit int) {
	offset = (number - 1) * p.PerPage
	limit = p.PerPage
	if rest := int(p.Count) - offset; rest < limit {
		limit = rest
	}
	if limit < 0 {
		limit = 0
	}
	return offset, limit
}

// Page - страница выборки и ее метаданные
type Page[T any] struct {
	ObjectList         []T   `json:"object_list"`
	Number             int   `json:"number"`
	NumPages           int   `json:"num_pages"`
	Count              int64 `json:"count"`
	HasNext            bool  `json:"has_next"`
	HasPrevious        bool  `json:"has_previous"`
	NextPageNumber     int   `json:"next_page_number,omitempty"`
	PreviousPageNumber int   `json:"previous_page_number,omitempty"`
}

func newPage[T any](p Paginator, number int, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	page := &Page[T]{
		ObjectList:  items,
		Number:      number,
		NumPages:    p.NumPages(),
		Count:       p.Count,
		HasNext:     number < p.NumPages(),
		HasPrevious: number > 1,
	}
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}
	return page
}

// Paginate выполняет COUNT и один запрос LIMIT/OFFSET по query.
// query должен быть уже упорядочен; preloads подгружаются только для страницы.
func Paginate[T any](ctx context.Context, query *gorm.DB, perPage int, raw string, preloads ...string) (*Page[T], error) {
	var count int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}

	p := NewPaginator(count, perPage)
	number := p.PageNumber(raw)
	offset, limit := p.Bounds(number)

	var items []T
	if limit > 0 {
		pageQuery := query.Session(&gorm.Session{}).WithContext(ctx)
		for _, name := range preloads {
			pageQuery = pageQuery.Preload(name)
		}
		err := pageQuery.Offset(offset).Limit(limit).Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page: %w", err)
		}
	}
	return newPage(p, number, items), nil
}
