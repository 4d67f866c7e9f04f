package extraction

import (
	"strings"
	"time"

	"github.com/jonathan/experience-validator/internal/dates"
	"github.com/jonathan/experience-validator/internal/types"
)

// Segmenter splits OCR text into blank-line separated blocks and extracts one record per block.
type Segmenter struct {
	// Now supplies the end boundary of experiences without an end date. Defaults to time.Now.
	Now func() time.Time
	// Rules overrides DefaultRules when non-empty.
	Rules RuleSet
}

// NewSegmenter returns a segmenter with the default rules and wall clock.
func NewSegmenter() *Segmenter {
	return &Segmenter{Now: time.Now}
}

// Segment extracts experience records in document order.
// An empty result means no experience was found in the text.
func (s *Segmenter) Segment(raw string) []types.ExperienceRecord {
	extractor := NewExtractor(s.Rules)
	records := []types.ExperienceRecord{}

	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		c := extractor.ExtractBlock(block)
		block = block[:0]
		if c.Empty() {
			return
		}
		records = append(records, s.complete(c))
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return records
}

// complete fills months_worked for candidates that have a start date.
func (s *Segmenter) complete(c Candidate) types.ExperienceRecord {
	rec := c.Record()
	if c.StartDate == nil {
		return rec
	}

	months := 0
	start, ok := dates.Parse(*c.StartDate)
	if ok {
		end, endOK := s.today(), true
		if c.EndDate != nil {
			end, endOK = dates.Parse(*c.EndDate)
		}
		if endOK {
			months = dates.MonthsBetween(start, end)
		}
	}
	rec.MonthsWorked = &months
	return rec
}

func (s *Segmenter) today() time.Time {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return dates.Today(now())
}
