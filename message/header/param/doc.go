// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-type and Content-disposition header. Parameters
// keep the order they were parsed or set in, so a header that is parsed,
// modified, and rendered again changes as little as possible. Filenames are
// rendered with RFC 2231 continuations whenever they need it.
package param
