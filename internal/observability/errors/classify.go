// Package errors classifies errors into stable tag values for metrics and logs.
package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify returns a normalized error class suitable for tagging metrics.
// Context errors map to "timeout" and "canceled"; anything else is named after
// the innermost concrete error type, e.g. "pgconn_pgerror".
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
