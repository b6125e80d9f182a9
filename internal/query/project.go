// Package query computes the filtered, sorted views of the record
// collections. It never mutates its input.
package query

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"pocketdesk/internal/models"
)

// SortMode selects the ordering of a projection.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortAZ     SortMode = "az"
	SortDate   SortMode = "date"
)

// Record is what the pipeline needs from a task or a note.
type Record interface {
	RecordID() string
	RecordTitle() string
	RecordDescription() string
	RecordDate() string
}

// SortModesFor lists the orderings that mean something for kind. Notes carry
// no date, so date ordering is only offered for tasks.
func SortModesFor(kind models.Kind) []SortMode {
	if kind == models.KindTask {
		return []SortMode{SortNewest, SortOldest, SortAZ, SortDate}
	}
	return []SortMode{SortNewest, SortOldest, SortAZ}
}

// Valid reports whether m is one of the known modes (the empty mode counts
// as the default).
func (m SortMode) Valid() bool {
	switch m {
	case "", SortNewest, SortOldest, SortAZ, SortDate:
		return true
	}
	return false
}

// Project filters records by q and orders them by mode, collating titles
// with the root locale.
func Project[T Record](records []T, q string, mode SortMode) []T {
	return ProjectIn(language.Und, records, q, mode)
}

// ProjectIn is Project with titles collated for lang. Unknown modes keep
// the filtered records in input order.
func ProjectIn[T Record](lang language.Tag, records []T, q string, mode SortMode) []T {
	out := Filter(records, q)
	switch mode {
	case "", SortNewest:
		sortByID(out, true)
	case SortOldest:
		sortByID(out, false)
	case SortAZ:
		c := collate.New(lang)
		slices.SortStableFunc(out, func(a, b T) int {
			return c.CompareString(a.RecordTitle(), b.RecordTitle())
		})
	case SortDate:
		sortByDate(out)
	}
	return out
}

// Filter keeps records whose title or description contains q, ignoring
// case. An empty q keeps everything. The result is always a fresh slice.
func Filter[T Record](records []T, q string) []T {
	out := make([]T, 0, len(records))
	if q == "" {
		return append(out, records...)
	}
	fold := cases.Fold()
	needle := fold.String(q)
	for _, r := range records {
		if strings.Contains(fold.String(r.RecordTitle()), needle) {
			out = append(out, r)
			continue
		}
		if d := r.RecordDescription(); d != "" && strings.Contains(fold.String(d), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sortByID orders by the numeric value of the id. Ids that are not numbers
// go last, in input order.
func sortByID[T Record](out []T, desc bool) {
	slices.SortStableFunc(out, func(a, b T) int {
		x, xok := numericID(a.RecordID())
		y, yok := numericID(b.RecordID())
		switch {
		case !xok && !yok:
			return 0
		case !xok:
			return 1
		case !yok:
			return -1
		}
		if desc {
			x, y = y, x
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	})
}

func numericID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	return n, err == nil
}

func sortByDate[T Record](out []T) {
	slices.SortStableFunc(out, func(a, b T) int {
		x, xok := ParseDate(a.RecordDate())
		y, yok := ParseDate(b.RecordDate())
		switch {
		case !xok && !yok:
			return 0
		case !xok:
			return 1
		case !yok:
			return -1
		}
		return x.Compare(y)
	})
}

// ParseDate reads D/M/YYYY or DD/MM/YYYY and rejects dates that do not
// exist on the calendar.
func ParseDate(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return time.Time{}, false
	}
	var n [3]int
	for i, p := range parts {
		if p == "" || (i < 2 && len(p) > 2) {
			return time.Time{}, false
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return time.Time{}, false
		}
		n[i] = v
	}
	day, month, year := n[0], n[1], n[2]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
