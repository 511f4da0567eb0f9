package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeRange(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "Unknown"},
		{-3, "Unknown"},
		{1, "1-10"},
		{10, "1-10"},
		{11, "11-50"},
		{50, "11-50"},
		{51, "51-200"},
		{200, "51-200"},
		{201, "201-500"},
		{500, "201-500"},
		{501, "501-1000"},
		{1000, "501-1000"},
		{1001, "1001-5000"},
		{5000, "1001-5000"},
		{5001, "5000+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmployeeRange(tt.count), "count=%d", tt.count)
	}
}

func TestFormatRevenue(t *testing.T) {
	assert.Equal(t, "Unknown", FormatRevenue(0))
	assert.Equal(t, "$2.5B", FormatRevenue(2_500_000_000))
	assert.Equal(t, "$45M", FormatRevenue(45_000_000))
	assert.Equal(t, "$300K", FormatRevenue(300_000))
	assert.Equal(t, "$900", FormatRevenue(900))
}

func TestSeniorityLabel(t *testing.T) {
	assert.Equal(t, "C-Level Executive", SeniorityCSuite.Label())
	assert.Equal(t, "Vice President", SeniorityVP.Label())
	assert.Equal(t, "Director", SeniorityDirector.Label())
	assert.Equal(t, "Manager", SeniorityManager.Label())
	assert.Equal(t, "Senior", SenioritySenior.Label())
	assert.Equal(t, "Entry Level", SeniorityEntry.Label())
	assert.Equal(t, "owner", Seniority("owner").Label())
	assert.Equal(t, "Vice President", Seniority("VP").Label())
	assert.Equal(t, "C-Level Executive", Seniority("C_Suite").Label())
	assert.Equal(t, "Owner", Seniority("Owner").Label())
}

func TestScoreClass(t *testing.T) {
	assert.Equal(t, "high", ScoreClass(80))
	assert.Equal(t, "medium", ScoreClass(79))
	assert.Equal(t, "medium", ScoreClass(60))
	assert.Equal(t, "low", ScoreClass(59))
}

func TestConfidenceClass(t *testing.T) {
	assert.Equal(t, "high", ConfidenceClass(90))
	assert.Equal(t, "medium", ConfidenceClass(70))
	assert.Equal(t, "low", ConfidenceClass(30))
}

func TestUnknownCompany(t *testing.T) {
	c := UnknownCompany()
	assert.Equal(t, "Unknown", c.Industry)
	assert.Equal(t, "Unknown", c.Revenue)
	assert.Equal(t, "Unknown", c.EmployeesRange)
	assert.Equal(t, 0, c.EmployeesCount)
	assert.NotNil(t, c.Technologies)
	assert.Empty(t, c.Technologies)
	assert.Zero(t, c.FundingTotal)
}
