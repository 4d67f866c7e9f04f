// Package extraction turns raw OCR text into candidate experience records.
package extraction

import (
	"regexp"
	"sort"
)

// Field identifies what a rule extracts from a line.
type Field int

const (
	// FieldCompany captures the employer name.
	FieldCompany Field = iota
	// FieldPosition captures the job title.
	FieldPosition
	// FieldEntryContext marks a line as describing an admission (entry) date.
	// Its rules capture nothing; a match only affects date assignment.
	FieldEntryContext
)

func (f Field) String() string {
	switch f {
	case FieldCompany:
		return "company"
	case FieldPosition:
		return "position"
	case FieldEntryContext:
		return "entry_context"
	}
	return "unknown"
}

// Rule is one labeled pattern. For capturing fields the first submatch is the value.
// Rules of the same field run in ascending Priority; a later match overwrites an earlier one.
type Rule struct {
	Field    Field
	Name     string
	Pattern  *regexp.Regexp
	Priority int
}

// RuleSet is an ordered list of rules.
type RuleSet []Rule

// datePattern finds date-shaped substrings: D[/-]M[/-]Y with 2-4 digit years.
var datePattern = regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`)

// DefaultRules returns the Portuguese labour-card rules.
func DefaultRules() RuleSet {
	return RuleSet{
		{Field: FieldCompany, Name: "company_label", Priority: 10,
			Pattern: regexp.MustCompile(`(?i)(?:empresa|empregador|razão social)[\s:]+([^\n]+)`)},
		{Field: FieldCompany, Name: "company_after_cnpj", Priority: 20,
			Pattern: regexp.MustCompile(`(?i)CNPJ[\s:]+[\d./\-]+\s+([^\n]+)`)},
		{Field: FieldPosition, Name: "position_label", Priority: 10,
			Pattern: regexp.MustCompile(`(?i)(?:cargo|função|ocupação)[\s:]+([^\n]+)`)},
		{Field: FieldPosition, Name: "position_after_cbo", Priority: 20,
			Pattern: regexp.MustCompile(`(?i)CBO[\s:]+[\d\-]+\s+([^\n]+)`)},
		{Field: FieldEntryContext, Name: "admission_keyword", Priority: 10,
			Pattern: regexp.MustCompile(`(?i)admiss|entrada`)},
	}
}

// Ordered returns a copy of the set sorted by field and then priority.
// Rules with equal priority keep their declaration order.
func (rs RuleSet) Ordered() RuleSet {
	out := make(RuleSet, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

// ForField returns the rules of one field in evaluation order.
func (rs RuleSet) ForField(f Field) RuleSet {
	var out RuleSet
	for _, r := range rs.Ordered() {
		if r.Field == f {
			out = append(out, r)
		}
	}
	return out
}
