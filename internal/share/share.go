// Package share formats a result for the system share sheet or clipboard.
package share

import (
	"fmt"

	"github.com/hperssn/reflex/internal/domain"
)

const Title = "Reflex - Reaction Time Test"

func Text(ms int) string {
	return fmt.Sprintf("⚡ Reflex Test: %dms\n%s\n\nTest your reaction time!", ms, domain.Classify(ms).Rating)
}

// WithURL is the clipboard form: the share text followed by the page URL.
func WithURL(text, url string) string {
	if url == "" {
		return text
	}
	return text + "\n" + url
}
