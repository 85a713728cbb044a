package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AllYears is the selector value covering every year in the dataset.
const AllYears = "ALL"

// ErrInvalidSelector is returned when a selector value is neither ALL nor an integer year.
var ErrInvalidSelector = errors.New("invalid year selector")

// YearSelector picks the scope of a chart request: every year, or a single year.
type YearSelector struct {
	all  bool
	year int
}

// All returns the selector covering every year.
func All() YearSelector {
	return YearSelector{all: true}
}

// Year returns the selector for a single year.
func Year(year int) YearSelector {
	return YearSelector{year: year}
}

// ParseYearSelector parses the dropdown value. An empty value selects every year.
func ParseYearSelector(raw string) (YearSelector, error) {
	val := strings.TrimSpace(raw)
	if val == "" || val == AllYears {
		return All(), nil
	}
	year, err := strconv.Atoi(val)
	if err != nil || year <= 0 {
		return YearSelector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
	}
	return Year(year), nil
}

// IsAll reports whether the selector covers every year.
func (s YearSelector) IsAll() bool {
	return s.all
}

// Year returns the selected year. It is zero for the ALL selector.
func (s YearSelector) Year() int {
	return s.year
}

// Matches reports whether a record released in year falls inside the selector scope.
func (s YearSelector) Matches(year int) bool {
	return s.all || s.year == year
}

// Value is the dropdown value of the selector.
func (s YearSelector) Value() string {
	if s.all {
		return AllYears
	}
	return strconv.Itoa(s.year)
}

// Label is the human readable scope used in chart titles.
func (s YearSelector) Label() string {
	if s.all {
		return "All Years"
	}
	return strconv.Itoa(s.year)
}

func (s YearSelector) String() string {
	return s.Value()
}
