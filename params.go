package checkmango

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

const (
	argInclude = "include"
	argPage    = "page"
	argPerPage = "perPage"
)

// BuildParams translates call arguments into the query parameters the API
// expects. Keys listed in allowedFilters become filter[snake_case_key];
// include, page and perPage are passed through as include, page and
// per_page. Every other key is dropped.
func BuildParams(args Args, allowedFilters ...string) Params {
	params, _ := buildParams(args, allowedFilters)
	return params
}

// buildParams also reports the keys it dropped so callers can log them.
// Allow-listed filters win over the reserved names.
func buildParams(args Args, allowedFilters []string) (Params, []string) {
	params := make(Params, len(args))
	var dropped []string

	for key, value := range args {
		switch {
		case slices.Contains(allowedFilters, key):
			params["filter["+snakeCase(key)+"]"] = value
		case key == argInclude:
			params["include"] = joinList(value)
		case key == argPage:
			params["page"] = value
		case key == argPerPage:
			params["per_page"] = value
		default:
			dropped = append(dropped, key)
		}
	}

	slices.Sort(dropped)
	return params, dropped
}

// snakeCase inserts an underscore before every ASCII upper-case letter and
// lower-cases it: "teamId" -> "team_id".
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'A' && ch <= 'Z' {
			b.WriteByte('_')
			ch += 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// joinList joins slice and array values with a comma. Any other value is
// returned unchanged.
func joinList(value any) any {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ",")
	case []byte, nil:
		return value
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return value
	}

	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

// formatParam renders a parameter value for the query string.
func formatParam(value any) string {
	switch v := joinList(value).(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Pagination selects a page of a list endpoint. Zero values are not sent.
type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) apply(args Args) {
	if p.Page > 0 {
		args[argPage] = p.Page
	}
	if p.PerPage > 0 {
		args[argPerPage] = p.PerPage
	}
}

func setInclude[T ~string](args Args, include []T) {
	if len(include) > 0 {
		args[argInclude] = include
	}
}
