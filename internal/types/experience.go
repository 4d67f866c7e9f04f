// Package types provides type definitions for structured data used throughout the experience-validator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceRecord is a structured guess at one employment period extracted from OCR text.
// Every field is optional; extraction is best-effort.
type ExperienceRecord struct {
	CompanyName  *string `json:"company_name,omitempty"`
	Position     *string `json:"position,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	MonthsWorked *int    `json:"months_worked,omitempty"`
}

// IsEmpty reports whether no field of the record was populated
func (r ExperienceRecord) IsEmpty() bool {
	return r.CompanyName == nil && r.Position == nil && r.StartDate == nil &&
		r.EndDate == nil && r.MonthsWorked == nil
}

// Months returns months_worked, or 0 when it is absent
func (r ExperienceRecord) Months() int {
	if r.MonthsWorked == nil {
		return 0
	}
	return *r.MonthsWorked
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
