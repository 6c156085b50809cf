package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"repairshop/pkg/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds validated pagination parameters
type Params struct {
	Page  int
	Limit int
}

// Parse extracts page and limit from the query string. Missing or invalid
// values fall back to the defaults; limit is capped at MaxLimit.
func Parse(c *gin.Context) Params {
	return Params{
		Page:  positive(c.Query("page"), DefaultPage),
		Limit: min(positive(c.Query("limit"), DefaultLimit), MaxLimit),
	}
}

// Wrap builds the response envelope for one page of results.
func (p Params) Wrap(items interface{}, total int64) response.Page {
	return response.Page{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
