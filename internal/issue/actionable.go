// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError reports a failed operation, the file or URL it was
	// working on, and what the user can try next. The CLI prints the
	// suggestions under the error line.
	ActionableError struct {
		// Operation is a verb phrase such as "install archive".
		Operation string
		// Resource is the archive, directory or URL involved (optional).
		Resource    string
		Suggestions []string
		Cause       error
	}

	// ErrorContext collects the parts of an ActionableError while a command
	// runs. Classifiers add suggestions as they learn what went wrong.
	//
	//	return issue.NewErrorContext().
	//		WithOperation("install archive").
	//		WithResource(path).
	//		WithSuggestion("Run 'annoload classify " + path + "' to see why no installer accepts it").
	//		Wrap(err).
	//		BuildError()
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation sets the operation that failed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the archive, directory or URL the operation touched.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a hint. Empty and repeated hints are ignored.
func (c *ErrorContext) WithSuggestion(hint string) *ErrorContext {
	if hint != "" && !slices.Contains(c.suggestions, hint) {
		c.suggestions = append(c.suggestions, hint)
	}
	return c
}

// Wrap records the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// BuildError returns the collected context as an *ActionableError. Without
// an operation there is nothing to add, so the wrapped cause is returned
// unchanged (nil when nothing was wrapped).
func (c *ErrorContext) BuildError() error {
	if c.operation == "" {
		return c.cause
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: slices.Clone(c.suggestions),
		Cause:       c.cause,
	}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the error line followed by one bulleted line per
// suggestion. Verbose output also lists every error in the cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, hint := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(hint)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err.Error())
		}
	}

	return sb.String()
}
