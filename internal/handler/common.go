package handler // handler defines http handlers

import (
	"strconv" // strconv converts path parameters to numeric types
	"strings" // strings provides trimming and case helpers

	"github.com/labstack/echo/v4" // echo defines request context types
)

// pathID parses the named path parameter as a positive uint64.  The
// second return value is false when the parameter is missing, malformed
// or zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// dedupeIDs removes zeros and duplicates while preserving first-seen
// order.  Hold and booking requests treat their seat list as a set.
func dedupeIDs(ids []uint64) []uint64 {
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	return unique
}

// indexToRowLabel converts a zero-based row index to an alphabetical row
// label like A, B, ..., Z, AA, AB.  The base-26 scheme keeps labels
// defined for any row count instead of breaking past 26 rows.
func indexToRowLabel(i int) string {
	if i < 0 {
		return ""
	}
	res := []rune{}
	for {
		rem := i % 26
		res = append(res, rune('A'+rem))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// rowLabelToIndex converts a row label like A or AA into its zero-based
// index.  It returns false for empty labels or non A-Z characters.
func rowLabelToIndex(label string) (int, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'A' || ch > 'Z' {
			return -1, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}
