package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"splitter/internal/core"
)

var (
	errUnknownKind  = errors.New("unknown list")
	errInvalidIndex = errors.New("index must be an integer")
)

// kindSegments maps URL path segments to lists. "incomes" is the name the
// lists were stored under before they were called contributions.
var kindSegments = map[string]core.FinanceType{
	"contributions": core.Contribution,
	"incomes":       core.Contribution,
	"expenses":      core.Expense,
}

// pathSegment is the canonical URL segment for kind.
func pathSegment(kind core.FinanceType) string {
	if kind == core.Expense {
		return "expenses"
	}
	return "contributions"
}

func kindParam(r *http.Request) (core.FinanceType, error) {
	kind, ok := kindSegments[chi.URLParam(r, "kind")]
	if !ok {
		return "", errUnknownKind
	}
	return kind, nil
}

// indexParam parses {index}. Any integer is accepted; range is the
// service's concern.
func indexParam(r *http.Request) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "index")))
	if err != nil {
		return 0, errInvalidIndex
	}
	return index, nil
}

// normalizeDecimal turns a decimal comma into a dot ("12,50" -> "12.50").
// Values that already contain a dot are left alone, so "1,234.56" keeps its
// thousands separator and parses as 1.
func normalizeDecimal(s string) string {
	if strings.Contains(s, ".") {
		return s
	}
	return strings.Replace(s, ",", ".", 1)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// wantsJSON reports whether the client asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") &&
		r.Header.Get("HX-Request") == ""
}
