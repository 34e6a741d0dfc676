package model

// Page describes a pagination request. Normalize coerces out-of-range
// values instead of rejecting them.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"pageSize"`
}

// Normalize clamps the page request to sane bounds
func (p Page) Normalize(defaultSize, maxSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

// Skip returns the document offset for the page
func (p Page) Skip() int64 {
	return int64((p.Number - 1) * p.Size)
}

// Limit returns the page size as an int64
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// PagedResult wraps a page of items with the total count
type PagedResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}
