package waterfall

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// this file handles importing cash-flow series produced by external models
// (spreadsheet exports, underwriting tools) from arbitrary JSON documents.

// ImportSeries reads a JSON document from r and extracts a monthly cash-flow
// series using a jsonpath expression that must select an array of numbers,
// one per period from the start of the timeline. Shorter arrays leave the
// remaining periods at zero; longer arrays are an error.
func ImportSeries(r io.Reader, path string, t Timeline, currency string) (*Series, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse JSON document: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		// because jsonpath is never clear about whether it returns a list or a
		// single answer, accept a lone number as a one-period series.
		if v, isNum := jval.(float64); isNum {
			jlist = []any{v}
		} else {
			return nil, fmt.Errorf("path %q selected %T, want an array of numbers", path, jval)
		}
	}
	if len(jlist) > t.Months {
		return nil, fmt.Errorf("path %q selected %d values, timeline has only %d periods", path, len(jlist), t.Months)
	}

	s := NewSeries(t, currency)
	for i, jv := range jlist {
		v, isNum := jv.(float64)
		if !isNum {
			return nil, fmt.Errorf("path %q value %d is %T, want a number", path, i, jv)
		}
		s.Set(i, M(v, currency))
	}
	return s, nil
}
