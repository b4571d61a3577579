package notify

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	noticePolicyOnce sync.Once
	noticePolicy     *bluemonday.Policy
)

// SanitizeData strips markup from every string value of a notice payload.
// Non-string values pass through untouched.
func SanitizeData(data map[string]any) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		if s, ok := value.(string); ok {
			out[key] = SanitizeText(s)
			continue
		}
		out[key] = value
	}
	return out
}

// SanitizeText strips all markup from a user-entered string destined for a
// toast body.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(noticeSanitizer().Sanitize(trimmed))
}

func noticeSanitizer() *bluemonday.Policy {
	noticePolicyOnce.Do(func() {
		noticePolicy = bluemonday.StrictPolicy()
	})
	return noticePolicy
}
