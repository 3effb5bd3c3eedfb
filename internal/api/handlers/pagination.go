package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPerPage = 500

// pageParams parses 1-based page/per_page query params with defaults.
// Out-of-range values are clamped rather than rejected.
func pageParams(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}

// pageCount returns the number of pages for total rows, at least 1 so an
// empty result still reads as page 1 of 1.
func pageCount(total int64, perPage int) int {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// envelope is the shared list response shape.
func envelope(items interface{}, page, pages int, total int64) gin.H {
	return gin.H{
		"items": items,
		"page":  page,
		"pages": pages,
		"total": total,
	}
}
