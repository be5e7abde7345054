package dto

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination defines query parameters for paginated listings.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize clamps the pagination values into a sane range.
func (p *Pagination) Normalize() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
