// Mutation bodies arrive as JSON from API clients and form-encoded from
// HTMX; both are flattened to sanitized string fields here.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds what a mutation request may send.
const maxBodyBytes = 64 << 10

// bodyFields is a decoded mutation body.
type bodyFields struct {
	values map[string]string
	json   bool
}

// readBody decodes r's body. A body is JSON when the Content-Type says so or
// when it opens with '{'; anything else is parsed as a query string.
func readBody(r *http.Request) (bodyFields, error) {
	f := bodyFields{values: map[string]string{}}
	if r.Body == nil {
		return f, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return f, fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return f, nil
	}

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") || raw[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return f, fmt.Errorf("decode json body: %w", err)
		}
		f.json = true
		for k, v := range obj {
			f.values[k] = sanitizeInput(jsonScalar(v))
		}
		return f, nil
	}

	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return f, fmt.Errorf("decode form body: %w", err)
	}
	for k := range form {
		f.values[k] = sanitizeInput(form.Get(k))
	}
	return f, nil
}

func (f bodyFields) get(key string) string {
	return f.values[key]
}

// jsonScalar renders a decoded JSON scalar as text. Numbers keep their
// shortest decimal form; objects and arrays read as empty.
func jsonScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

type itemInput struct {
	Label string
	Value string
}

// parseItemInput reads label and value of an add request, normalizing a
// decimal comma in value.
func parseItemInput(r *http.Request) (itemInput, error) {
	f, err := readBody(r)
	if err != nil {
		return itemInput{}, err
	}
	return itemInput{
		Label: f.get("label"),
		Value: normalizeDecimal(f.get("value")),
	}, nil
}

func parseLabelInput(r *http.Request) (string, error) {
	f, err := readBody(r)
	if err != nil {
		return "", err
	}
	return f.get("label"), nil
}
