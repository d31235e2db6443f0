// Package jsonpath extracts values from JSON documents such as saved run
// summaries.
package jsonpath

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyDocument is returned for an empty JSON input.
	ErrEmptyDocument = errors.New("empty JSON document")

	// ErrEmptyPath is returned for an empty path expression.
	ErrEmptyPath = errors.New("empty path expression")

	// ErrNotFound is returned when a path matches nothing.
	ErrNotFound = errors.New("path not found")
)

// Extract returns the value at path as a string.
//
// Paths starting with "$" are JSONPath expressions ($.strategies[0].average).
// Any other path is handed to gjson unchanged, which allows gjson queries
// such as strategies.#(strategy=="batch").p99.
func Extract(json string, path string) (string, error) {
	if strings.TrimSpace(json) == "" {
		return "", ErrEmptyDocument
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	if !gjson.Valid(json) {
		return "", fmt.Errorf("invalid JSON document")
	}

	result := gjson.Get(json, toGjson(path))
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractAll extracts several paths. Every path is attempted; the returned
// error lists the ones that failed, in path order.
func ExtractAll(json string, paths []string) (map[string]string, error) {
	results := make(map[string]string, len(paths))
	var failed []string

	for _, path := range paths {
		value, err := Extract(json, path)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		results[path] = value
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failed, "; "))
	}
	return results, nil
}

var bracketQuotes = strings.NewReplacer(`['`, ".", `']`, "", `["`, ".", `"]`, "")

// toGjson converts a JSONPath expression to gjson syntax:
// $.strategies[0].average becomes strategies.0.average.
func toGjson(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}

	path = strings.TrimPrefix(path, "$")
	path = bracketQuotes.Replace(path)
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	path = strings.TrimPrefix(path, ".")

	if path == "" {
		return "@this"
	}
	return path
}
