package domain

import "github.com/microcosm-cc/bluemonday"

var strictPolicy = bluemonday.StrictPolicy()

// ContainsMarkup reports whether a free-text field changes under a strict
// sanitization pass, i.e. it carries HTML tags or entities that would need
// escaping. Such input is rejected outright rather than silently cleaned.
func ContainsMarkup(s string) bool {
	return strictPolicy.Sanitize(s) != s
}
