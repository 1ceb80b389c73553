// Package pagination переводит page/page_size в take/skip и обратно в метаданные ответа.
package pagination

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination - метаданные страницы в ответе API.
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPage   int `json:"total_page"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// Params - запрошенная страница после нормализации.
type Params struct {
	Take int
	Skip int
}

// Calculate нормализует page и pageSize: неположительные и слишком большие значения заменяются дефолтами.
func Calculate(page, pageSize int) Params {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// page за пределами int64 смещения считается невалидным, как и неположительный
	if page <= 0 || page > math.MaxInt/pageSize {
		page = DefaultPage
	}
	return Params{Take: pageSize, Skip: (page - 1) * pageSize}
}

// New строит метаданные по общему числу записей и окну take/skip.
func New(total, take, skip int) Pagination {
	if take <= 0 {
		take = DefaultPageSize
	}
	return Pagination{
		TotalItems:  total,
		TotalPage:   (total + take - 1) / take,
		CurrentPage: skip/take + 1,
		PageSize:    take,
	}
}
