package pages

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOrder parses a new page order such as "3,1,2" or "5-1" against a
// document of total pages. Tokens use the Resolve syntax, except that a
// descending range lists pages in reverse. The result holds zero-based
// indices and must name every page exactly once.
func ParseOrder(spec string, total int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, &InvalidRangeError{Token: spec, Reason: "empty order"}
	}

	order := make([]int, 0, total)
	seen := make(map[int]bool, total)
	for _, raw := range strings.Split(spec, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, &InvalidRangeError{Token: raw, Reason: "empty token"}
		}
		start, end, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		if min(start, end) < 1 || max(start, end) > total {
			return nil, &InvalidRangeError{
				Token:  token,
				Reason: fmt.Sprintf("page out of bounds, document has %d page(s)", total),
			}
		}

		step := 1
		if start > end {
			step = -1
		}
		for p := start; ; p += step {
			if seen[p] {
				return nil, &InvalidRangeError{Token: token, Reason: fmt.Sprintf("page %d listed twice", p)}
			}
			seen[p] = true
			order = append(order, p-1)
			if p == end {
				break
			}
		}
	}

	if len(order) != total {
		var missing []string
		for p := 1; p <= total; p++ {
			if !seen[p] {
				missing = append(missing, strconv.Itoa(p))
			}
		}
		return nil, &InvalidRangeError{Token: spec, Reason: "missing page(s) " + strings.Join(missing, ",")}
	}
	return order, nil
}
