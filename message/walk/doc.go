// Package walk provides tools for visiting every node of a MIME tree built
// with the message package.
package walk
