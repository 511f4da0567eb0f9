package normalize

import (
	"regexp"
	"strings"
)

// roleIndicators are trailing clauses that describe a role, not the employer.
var roleIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*,?\s*board member.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*advisor.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*investor.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*consultant.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*mentor.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*volunteer.*$`),
	regexp.MustCompile(`\s*&.*$`),
	regexp.MustCompile(`\s*\|.*$`),
}

var trailingPunct = regexp.MustCompile(`[,;:\s]+$`)

// Company cleans a company string: drops the "· Full-time" style suffix of
// experience entries, strips role clauses and trailing punctuation, then
// collapses DOM-duplicated text.
func Company(s string) string {
	if i := strings.Index(s, "·"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = StripRoleIndicators(s)
	return CollapseDuplicate(s)
}

// StripRoleIndicators removes trailing role clauses and punctuation.
func StripRoleIndicators(s string) string {
	for _, re := range roleIndicators {
		s = strings.TrimSpace(re.ReplaceAllString(s, ""))
	}
	return strings.TrimSpace(trailingPunct.ReplaceAllString(s, ""))
}

// CollapseDuplicate repairs text rendered twice back to back, so
// "Lenskart.comLenskart.com" becomes "Lenskart.com". It repeats until the
// string no longer splits into two identical halves.
func CollapseDuplicate(s string) string {
	for {
		n := len(s)
		if n < 2 || n%2 != 0 || s[:n/2] != s[n/2:] {
			return s
		}
		s = s[:n/2]
	}
}
