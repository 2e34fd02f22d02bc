// Package query translates loosely-typed request parameters into a typed
// query descriptor the repositories can execute.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"taskboard/internal/apperrors"
)

// Options is the structured query descriptor parsed from request parameters.
// Where, Sort and Select hold the caller's JSON documents as decoded; they
// are validated against the target model when the repository executes them.
type Options struct {
	Where  map[string]any
	Sort   map[string]any
	Select map[string]any
	Skip   int
	Limit  int
	Count  bool
}

// Parse builds Options from URL query parameters.
//
// The filter document is read from "where", falling back to "filter" when
// "where" is absent (first present wins, no conflict error). A present but
// unparseable document fails with a malformed-query error naming the
// parameter. Skip defaults to 0 and limit to defaultLimit; negative values
// clamp to 0. Count is true only for the literal text "true", case folded.
func Parse(params url.Values, defaultLimit int) (*Options, error) {
	opts := &Options{
		Skip:  intParam(params, "skip", 0),
		Limit: intParam(params, "limit", defaultLimit),
		Count: strings.EqualFold(params.Get("count"), "true"),
	}

	var err error
	if opts.Where, err = jsonParam(params, "where", "filter"); err != nil {
		return nil, err
	}
	if opts.Sort, err = jsonParam(params, "sort"); err != nil {
		return nil, err
	}
	if opts.Select, err = jsonParam(params, "select"); err != nil {
		return nil, err
	}

	opts.hoistIDProjection()
	return opts, nil
}

// hoistIDProjection moves a literal `"_id": 1` or `"_id": 0` out of the
// filter and into the projection. As a value-equality predicate it is
// meaningless, and callers use it to mean "only ids" / "no ids".
func (o *Options) hoistIDProjection() {
	v, ok := o.Where["_id"]
	if !ok {
		return
	}
	n, ok := v.(float64)
	if !ok || (n != 0 && n != 1) {
		return
	}
	delete(o.Where, "_id")
	if o.Select == nil {
		o.Select = make(map[string]any, 1)
	}
	o.Select["_id"] = n
}

// jsonParam decodes the first present key as a JSON object.
func jsonParam(params url.Values, keys ...string) (map[string]any, error) {
	for _, key := range keys {
		if !params.Has(key) {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(params.Get(key)), &doc); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMalformedQuery, key)
		}
		return doc, nil
	}
	return nil, nil
}

// intParam reads a numeric parameter, substituting def for absent or
// non-numeric input and clamping negatives to 0.
func intParam(params url.Values, key string, def int) int {
	n := def
	if raw := params.Get(key); raw != "" {
		// ParseFloat also accepts "NaN" and "Inf"; treat those as absent.
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			n = int(parsed)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
