package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size, falling back to defaults for
// missing or out-of-range values.
func ParsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = DefaultPageSize
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= MaxPageSize {
			pageSize = ps
		}
	}
	return
}

// ParseOrdering turns "field" or "-field" into an ORDER BY clause. Only keys
// of allowed are accepted; the map value is the column to sort by.
func ParseOrdering(value string, allowed map[string]string, fallback string) (string, error) {
	if value == "" {
		value = fallback
	}
	var clauses []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(part, "-") {
			dir = "DESC"
			part = part[1:]
		}
		column, ok := allowed[part]
		if !ok {
			return "", fmt.Errorf("cannot order by %q", part)
		}
		clauses = append(clauses, column+" "+dir)
	}
	return strings.Join(clauses, ", "), nil
}
