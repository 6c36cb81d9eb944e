package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Pagination carries the common list query parameters.
type Pagination struct {
	PageNumber int
	PageSize   int
	Search     string
}

// FromContext parses page/page_size/search from the query string with
// sane defaults and bounds.
func FromContext(c echo.Context) Pagination {
	p := Pagination{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		Search:     c.QueryParam("search"),
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
		if p.PageSize > MaxPageSize {
			p.PageSize = MaxPageSize
		}
	}

	return p
}

// Offset returns the SQL offset for the current page.
func (p Pagination) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
