package database

import "gorm.io/gorm"

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Paginate counts query, applies LIMIT/OFFSET for the requested page and
// scans the rows into dest. page and perPage are clamped to sane bounds.
func Paginate(query *gorm.DB, dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := query.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}

	return Pagination{Page: page, PerPage: perPage, Total: total, LastPage: last}, nil
}
