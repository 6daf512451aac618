package types

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

type Pagination struct {
	Page    uint64 `json:"page"`
	PerPage uint64 `json:"per_page"`
	Total   uint64 `json:"total"`
	Pages   uint64 `json:"pages"`
}

func NewPagination(page, perPage, total uint64) Pagination {
	p := Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}

	if perPage > 0 {
		p.Pages = (total + perPage - 1) / perPage
	}

	return p
}
