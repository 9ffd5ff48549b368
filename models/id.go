// id.go - Identifier allocation shared by every collection

package models

import (
	"strconv"
	"strings"
)

// NextID returns max(numeric ids)+1 as a string, or "1" for an empty set.
// Ids that are not integers are ignored. Gaps are never reused.
func NextID(ids []string) string {
	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
