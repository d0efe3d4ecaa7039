// Package header provides the ordered header store used by MIME nodes and the
// encoders that turn header values into RFC 2822 header text.
//
// Field names are normalized on the way in (see NormalizeKey), so lookups are
// case-insensitive while output keeps a consistent Capitalized-Hyphenated form.
// Bodies are stored exactly as given. Encoding happens only at render time via
// EncodeValue, which knows how to treat address fields, message identifiers,
// References, and free text.
package header
