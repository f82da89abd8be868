package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	freeTextPolicyOnce sync.Once
	freeTextPolicy     *bluemonday.Policy
)

// sanitizeFreeText strips markup from user-supplied prose before it is
// captured for submission. Grievance descriptions and address fields are the
// only places arbitrary text reaches the backend.
func sanitizeFreeText(raw string) string {
	freeTextPolicyOnce.Do(func() {
		freeTextPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(freeTextPolicy.Sanitize(raw))
}
