package domain

import "strings"

// NormalizeText trims leading/trailing whitespace and collapses internal
// whitespace runs. It is applied to free-text fields (hotel name, city,
// address) before validation and persistence.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
