package normalize

import (
	"regexp"
	"strings"
)

// atPattern matches "Title at Company" up to the first comma.
var atPattern = regexp.MustCompile(`^([^,]+?)\s+at\s+([^,]+?)(?:,|$)`)

// headlineTails are stripped from a company captured by atPattern.
var headlineTails = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*,?\s*board member.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*advisor.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*investor.*$`),
	regexp.MustCompile(`(?i)\s*,?\s*mentor.*$`),
	regexp.MustCompile(`\s*&.*$`),
	regexp.MustCompile(`\s*\|.*$`),
}

// ParseHeadline splits a headline such as "CPO at OpenAI, board member at XYZ"
// into title and company. ok is false when the headline names no company.
func ParseHeadline(headline string) (title, company string, ok bool) {
	if m := atPattern.FindStringSubmatch(headline); m != nil {
		title = strings.TrimSpace(m[1])
		company = strings.TrimSpace(m[2])
		for _, re := range headlineTails {
			company = strings.TrimSpace(re.ReplaceAllString(company, ""))
		}
		return title, company, true
	}

	parts := strings.Split(headline, " at ")
	if len(parts) < 2 {
		return "", "", false
	}
	title = strings.TrimSpace(parts[0])
	company = strings.TrimSpace(strings.SplitN(parts[1], ",", 2)[0])
	return title, company, true
}
