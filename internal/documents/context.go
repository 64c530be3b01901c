package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout renders dates the way the templates print them, e.g.
// "March 05, 2025".
const DateLayout = "January 02, 2006"

// NotApplicable replaces optional fields that were not supplied.
const NotApplicable = "N/A"

// RenderContext maps placeholder names to strings, json.Numbers, lists and
// nested maps.
type RenderContext map[string]any

// BuildContext flattens req into a RenderContext, adds the kind's date
// fields and fills unsupplied optional fields with "N/A". Absent lists
// become empty lists.
func BuildContext(req Request, now time.Time) (RenderContext, error) {
	ks, ok := kindSpecs[req.Kind()]
	if !ok {
		return nil, fmt.Errorf("unknown document kind %q", req.Kind())
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Kind(), err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	rc := RenderContext{}
	if err := dec.Decode(&rc); err != nil {
		return nil, fmt.Errorf("decode %s request: %w", req.Kind(), err)
	}

	date := now.Format(DateLayout)
	for _, field := range ks.dateFields {
		rc[field] = date
	}
	for _, field := range ks.optional {
		if isUnset(rc[field]) {
			rc[field] = NotApplicable
		}
	}
	for _, field := range ks.lists {
		if rc[field] == nil {
			rc[field] = []any{}
		}
	}
	for k, v := range rc {
		if v == nil {
			rc[k] = NotApplicable
		}
	}
	return rc, nil
}

func isUnset(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}
