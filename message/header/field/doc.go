// Package field provides the low-level tools for rendering a single header
// field: the field object itself, line folding, and RFC 2047 encoded words for
// header text that is not plain ASCII.
package field
