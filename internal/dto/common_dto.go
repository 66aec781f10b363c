package dto

// ─── Pagination ──────────────────────────────────────────────────────────────

// Paginacion is embedded in every list filter bound from the query string.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// Offset returns the number of rows to skip for the current page.
func (p Paginacion) Offset() int { return (p.Page - 1) * p.Limit }

// ListResponse is the envelope of every paginated GET.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// RangoFechas is bound from ?desde=&hasta= (YYYY-MM-DD or RFC 3339).
type RangoFechas struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}
