package extraction

import (
	"strings"

	"github.com/jonathan/experience-validator/internal/types"
)

// Candidate holds the raw fields found in one block, before durations are computed.
type Candidate struct {
	CompanyName *string
	Position    *string
	StartDate   *string
	EndDate     *string
}

// Empty reports whether no field was captured
func (c Candidate) Empty() bool {
	return c.CompanyName == nil && c.Position == nil && c.StartDate == nil && c.EndDate == nil
}

// Record converts the candidate into an ExperienceRecord without months_worked.
func (c Candidate) Record() types.ExperienceRecord {
	return types.ExperienceRecord{
		CompanyName: c.CompanyName,
		Position:    c.Position,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
	}
}

// Extractor applies a rule set to the lines of a block.
type Extractor struct {
	company  RuleSet
	position RuleSet
	entry    RuleSet
}

// NewExtractor builds an extractor; a nil or empty set falls back to DefaultRules.
func NewExtractor(rules RuleSet) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Extractor{
		company:  rules.ForField(FieldCompany),
		position: rules.ForField(FieldPosition),
		entry:    rules.ForField(FieldEntryContext),
	}
}

// ExtractBlock scans every line of one block and returns its candidate.
// Blank lines inside lines are skipped; splitting on them is the segmenter's job.
func (e *Extractor) ExtractBlock(lines []string) Candidate {
	var c Candidate
	for _, line := range lines {
		e.applyLine(&c, strings.TrimSpace(line))
	}
	return c
}

func (e *Extractor) applyLine(c *Candidate, line string) {
	if line == "" {
		return
	}

	if v, ok := lastCapture(e.company, line); ok {
		c.CompanyName = &v
	}
	if v, ok := lastCapture(e.position, line); ok {
		c.Position = &v
	}

	found := datePattern.FindAllString(line, -1)
	if len(found) == 0 {
		return
	}

	if c.StartDate == nil {
		start := found[0]
		c.StartDate = &start
	}
	// A lone date outside an admission line closes the period, even when it
	// also just opened it. Such a block has no measurable duration.
	switch {
	case len(found) > 1:
		end := found[1]
		c.EndDate = &end
	case !e.isEntryLine(line):
		end := found[0]
		c.EndDate = &end
	}
}

// lastCapture runs rules in order and keeps the last non-empty capture.
func lastCapture(rules RuleSet, line string) (string, bool) {
	var value string
	var ok bool
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		v := strings.TrimSpace(m[1])
		if v == "" {
			continue
		}
		value, ok = v, true
	}
	return value, ok
}

func (e *Extractor) isEntryLine(line string) bool {
	for _, r := range e.entry {
		if r.Pattern.MatchString(line) {
			return true
		}
	}
	return false
}
