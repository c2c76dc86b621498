package models

type APIResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}

type PropertyPage struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

type FavoritesPage struct {
	Favorites  []Property `json:"favorites"`
	Pagination Pagination `json:"pagination"`
}

type AuthResponse struct {
	AuthToken string `json:"authtoken"`
	User      *User  `json:"user"`
}
