// Package page holds the pagination descriptor shared by list endpoints.
// A Page is built once from the query string and passed by value down to
// the store layer, which applies LIMIT/OFFSET only for the fields that
// are set.
package page

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/storekit/storefront/internal/errx"
)

// Page describes an optional window over an insertion-ordered listing.
// Nil fields mean "no bound". There is no upper limit on Limit.
type Page struct {
	Limit  *int32
	Offset *int32
}

// FromQuery parses limit/offset from query parameters. Missing parameters
// leave the corresponding field nil; non-numeric or negative values reject
// the whole request.
func FromQuery(values url.Values) (Page, error) {
	const op = "page.FromQuery"

	var p Page

	limit, err := parseParam(values, "limit")
	if err != nil {
		return Page{}, errx.E(op, errx.Invalid, err)
	}
	p.Limit = limit

	offset, err := parseParam(values, "offset")
	if err != nil {
		return Page{}, errx.E(op, errx.Invalid, err)
	}
	p.Offset = offset

	return p, nil
}

// ApplyTo appends LIMIT/OFFSET clauses for the bounds that are set,
// returning the extended query and argument list. The receiver is never
// mutated; repositories apply a Page exactly once per query.
func (p Page) ApplyTo(sql string, args []any) (string, []any) {
	if p.Limit != nil {
		args = append(args, *p.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if p.Offset != nil {
		args = append(args, *p.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return sql, args
}

func parseParam(values url.Values, name string) (*int32, error) {
	if !values.Has(name) {
		return nil, nil
	}

	raw := values.Get(name)
	if raw == "" {
		return nil, fmt.Errorf("%s must be a number", name)
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	if n < 0 {
		return nil, errors.New(name + " must not be negative")
	}

	v := int32(n)
	return &v, nil
}
