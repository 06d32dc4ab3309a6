package imports

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const fallbackSKUPrefix = "DS-"

var slugScrubRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowers the name and collapses everything non-alphanumeric into
// single dashes.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugScrubRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	return slug
}

// fallbackSKU generates a stand-in SKU for feed products that have none.
func fallbackSKU() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fallbackSKUPrefix + strings.ToUpper(raw[:8])
}

// uniqueCandidate probes base, base-1, base-2, ... until taken reports a
// free value.
func uniqueCandidate(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
