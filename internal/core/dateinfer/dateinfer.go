// Package dateinfer resolves loosely formatted Chinese date-range text into
// concrete day-level ranges, inferring missing years from context.
package dateinfer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seedworks/compseed/internal/core/model"
)

// Context selects the year-inference policy for ranges without explicit
// years. Result dates of a year-N competition are expected to land in year
// N or N+1; registration and submission windows that wrap a year boundary
// are expected to have started the year before.
type Context string

const (
	Registration Context = "reg"
	Submission   Context = "sub"
	Result       Context = "res"
)

// DefaultBaseYear is the reference year substituted when the source text
// omits an explicit year.
const DefaultBaseYear = 2026

// Sentinel meaning the schedule is not announced yet; overrides any dates
// also present in the text.
const notAnnounced = "未公布"

var (
	parenRE    = regexp.MustCompile(`[（(][^（）()]*[）)]`)
	spaceRE    = regexp.MustCompile(`\s+`)
	fullDateRE = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	monthDayRE = regexp.MustCompile(`(\d{2})-(\d{2})`)
)

type Engine struct {
	BaseYear int
}

func NewEngine(baseYear int) *Engine {
	if baseYear == 0 {
		baseYear = DefaultBaseYear
	}
	return &Engine{BaseYear: baseYear}
}

// Parse resolves a fragment (or whole-cell fallback) into a DateRange.
// Unparseable text yields an empty range; components that do not name a
// real calendar day are an error, never clamped.
func (e *Engine) Parse(seg string, ctx Context) (model.DateRange, error) {
	s := strings.TrimSpace(seg)
	if s == "" || strings.Contains(s, notAnnounced) {
		return model.DateRange{}, nil
	}

	x := parenRE.ReplaceAllString(s, "")
	x = spaceRE.ReplaceAllString(x, "")

	// "xx-xx止" / "xx-xx截止" phrase a single end date.
	if strings.Contains(x, "止") && !strings.Contains(x, "至") {
		x = strings.SplitN(x, "止", 2)[0]
	}
	if strings.Contains(x, "截止") && !strings.Contains(x, "至") {
		x = strings.SplitN(x, "截止", 2)[0]
	}

	if strings.Contains(x, "至") {
		halves := strings.SplitN(x, "至", 2)
		return e.parseRange(halves[0], halves[1], ctx)
	}

	// Single full date.
	if m := fullDateRE.FindStringSubmatch(x); m != nil {
		d, err := newDate(num(m[1]), num(m[2]), num(m[3]))
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{Start: &d, End: &d}, nil
	}

	// Single mm-dd, reference year assumed.
	if m := monthDayRE.FindStringSubmatch(x); m != nil {
		d, err := newDate(e.BaseYear, num(m[1]), num(m[2]))
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{Start: &d, End: &d}, nil
	}

	return model.DateRange{}, nil
}

// parseRange handles the 至-separated form, trying inference rules in order
// until one produces a result.
func (e *Engine) parseRange(left, right string, ctx Context) (model.DateRange, error) {
	// End with an explicit year anchors the whole range.
	if m := fullDateRE.FindStringSubmatch(right); m != nil {
		endY, endM := num(m[1]), num(m[2])
		end, err := newDate(endY, endM, num(m[3]))
		if err != nil {
			return model.DateRange{}, err
		}

		if sm := fullDateRE.FindStringSubmatch(left); sm != nil {
			start, err := newDate(num(sm[1]), num(sm[2]), num(sm[3]))
			if err != nil {
				return model.DateRange{}, err
			}
			return model.DateRange{Start: &start, End: &end}, nil
		}

		if sm := monthDayRE.FindStringSubmatch(left); sm != nil {
			startM := num(sm[1])
			// Start month after end month: the range started the year before.
			startY := endY
			if startM > endM {
				startY = endY - 1
			}
			start, err := newDate(startY, startM, num(sm[2]))
			if err != nil {
				return model.DateRange{}, err
			}
			return model.DateRange{Start: &start, End: &end}, nil
		}

		return model.DateRange{End: &end}, nil
	}

	// End has no explicit year.
	em := monthDayRE.FindStringSubmatch(right)
	if em == nil {
		return model.DateRange{}, nil
	}
	endM, endD := num(em[1]), num(em[2])

	if sm := fullDateRE.FindStringSubmatch(left); sm != nil {
		startY, startM := num(sm[1]), num(sm[2])
		start, err := newDate(startY, startM, num(sm[3]))
		if err != nil {
			return model.DateRange{}, err
		}
		endY := startY
		if endM < startM {
			endY = startY + 1
		}
		end, err := newDate(endY, endM, endD)
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{Start: &start, End: &end}, nil
	}

	sm := monthDayRE.FindStringSubmatch(left)
	if sm == nil {
		// Only an end; pin it to the reference year.
		end, err := newDate(e.BaseYear, endM, endD)
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{End: &end}, nil
	}
	startM, startD := num(sm[1]), num(sm[2])

	// No explicit year on either side. A wrapped range (e.g. 08-30至01-06)
	// lands differently per context: result announcements run into the year
	// after the reference year, other windows started the year before it.
	startY, endY := e.BaseYear, e.BaseYear
	if startM > endM {
		if ctx == Result {
			endY = e.BaseYear + 1
		} else {
			startY = e.BaseYear - 1
		}
	}

	start, err := newDate(startY, startM, startD)
	if err != nil {
		return model.DateRange{}, err
	}
	end, err := newDate(endY, endM, endD)
	if err != nil {
		return model.DateRange{}, err
	}
	return model.DateRange{Start: &start, End: &end}, nil
}

// newDate rejects components that do not name a real calendar day.
// time.Date silently normalizes out-of-range fields (month 13 becomes
// January of the next year), which would hide source errors that have to
// be corrected upstream.
func newDate(y, m, d int) (time.Time, error) {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", y, m, d)
	}
	return t, nil
}

// num converts a regexp capture; the patterns guarantee digits only.
func num(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
