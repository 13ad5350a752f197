package service

import (
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"rbf-calc/domain"
)

// Location is the origin and path a share URL is built on.
type Location struct {
	Origin string
	Path   string
}

// ParseLocation splits an absolute URL into its Location and raw query.
func ParseLocation(raw string) (Location, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, "", err
	}
	loc := Location{Path: u.Path}
	if u.Scheme != "" && u.Host != "" {
		loc.Origin = u.Scheme + "://" + u.Host
	}
	return loc, u.RawQuery, nil
}

// History replaces the current address without navigating.
type History interface {
	ReplaceState(url string) error
}

// EncodeURL builds the absolute share URL for values and an optional
// selector. Keys absent from values are omitted. Keys are emitted in
// sorted order followed by solveFor.
func EncodeURL(loc Location, values map[string]float64, selector domain.Variable) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if selector != "" && k == domain.SolveForKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatParam(values[k])))
	}
	if selector != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(domain.SolveForKey)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(string(selector)))
	}

	return loc.Origin + loc.Path + "?" + b.String()
}

// EncodeState is EncodeURL over all six variables of vs.
func EncodeState(loc Location, vs domain.VariableSet, selector domain.Variable) string {
	return EncodeURL(loc, vs.Values(), selector)
}

// formatParam writes v in plain decimal notation without trailing zeros.
func formatParam(v float64) string {
	if math.IsInf(v, 0) {
		return formatInf(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParamValue is one decoded query parameter. Numeric is set when Raw
// parsed as a finite number.
type ParamValue struct {
	Raw     string
	Number  float64
	Numeric bool
}

// Params is a decoded query string.
type Params map[string]ParamValue

// DecodeURL parses a raw query string, with or without the leading '?'.
// It never fails: malformed pairs are skipped and values that are not
// clean numbers are kept as text. A repeated key keeps its last value.
func DecodeURL(rawQuery string) Params {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	// ParseQuery keeps every well-formed pair even when it reports an error.
	query, _ := url.ParseQuery(rawQuery)

	params := make(Params, len(query))
	for key, vals := range query {
		if len(vals) == 0 {
			continue
		}
		params[key] = coerce(vals[len(vals)-1])
	}
	return params
}

func coerce(raw string) ParamValue {
	pv := ParamValue{Raw: raw}
	text := strings.TrimSpace(raw)
	if text == "" {
		pv.Numeric = true
		return pv
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return pv
	}
	pv.Number = n
	pv.Numeric = true
	return pv
}

// Number returns the numeric value of key, if present and numeric.
func (p Params) Number(key string) (float64, bool) {
	pv, ok := p[key]
	if !ok || !pv.Numeric {
		return 0, false
	}
	return pv.Number, true
}

// VariableSet overlays the numeric parameters on the defaults.
func (p Params) VariableSet() domain.VariableSet {
	vs := domain.DefaultVariableSet()
	for _, v := range domain.Solvable {
		if n, ok := p.Number(string(v)); ok {
			vs = vs.With(v, n)
		}
	}
	return vs
}

// Selector returns the solveFor parameter, falling back to the default
// selector when it is absent or names no solvable variable.
func (p Params) Selector() domain.Variable {
	pv, ok := p[domain.SolveForKey]
	if !ok {
		return domain.DefaultSolveFor
	}
	if v, ok := domain.ParseVariable(pv.Raw); ok {
		return v
	}
	return domain.DefaultSolveFor
}

// ApplyURL encodes the state and replaces the current history entry with
// it. A nil History is a no-op and write failures are dropped.
func ApplyURL(h History, loc Location, values map[string]float64, selector domain.Variable) {
	if h == nil {
		return
	}
	u := EncodeURL(loc, values, selector)
	if err := h.ReplaceState(u); err != nil {
		slog.Debug("history replace failed", "url", u, "error", err)
	}
}
