package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Unknown is the placeholder for company attributes no provider supplied.
const Unknown = "Unknown"

// EmployeeRange buckets a head count. Zero or negative counts are Unknown.
func EmployeeRange(count int) string {
	switch {
	case count <= 0:
		return Unknown
	case count <= 10:
		return "1-10"
	case count <= 50:
		return "11-50"
	case count <= 200:
		return "51-200"
	case count <= 500:
		return "201-500"
	case count <= 1000:
		return "501-1000"
	case count <= 5000:
		return "1001-5000"
	default:
		return "5000+"
	}
}

// FormatRevenue renders a revenue figure as $1.2B, $45M, $300K or $900.
func FormatRevenue(n float64) string {
	switch {
	case n <= 0:
		return Unknown
	case n >= 1e9:
		return fmt.Sprintf("$%.1fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("$%.0fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("$%.0fK", n/1e3)
	default:
		return "$" + strconv.FormatFloat(n, 'f', -1, 64)
	}
}

// Label returns the display name for a seniority tag. Tags match
// case-insensitively; unknown tags are returned as given.
func (s Seniority) Label() string {
	switch Seniority(strings.ToLower(string(s))) {
	case SeniorityCSuite:
		return "C-Level Executive"
	case SeniorityVP:
		return "Vice President"
	case SeniorityDirector:
		return "Director"
	case SeniorityManager:
		return "Manager"
	case SenioritySenior:
		return "Senior"
	case SeniorityEntry:
		return "Entry Level"
	default:
		return string(s)
	}
}

// ScoreClass buckets a lead score into high, medium or low.
func ScoreClass(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}

// ConfidenceClass buckets an email confidence the same way.
func ConfidenceClass(confidence int) string {
	switch {
	case confidence >= 90:
		return "high"
	case confidence >= 70:
		return "medium"
	default:
		return "low"
	}
}
