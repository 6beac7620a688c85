package catalog

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9-]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify derives a CSS-filterable category slug from free-form input:
// lowercase, every character outside [a-z0-9-] becomes "-", runs of "-"
// collapse to one.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "-")
	return slugCollapse.ReplaceAllString(s, "-")
}
