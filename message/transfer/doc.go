// Package transfer chooses and applies the Content-Transfer-Encoding of a MIME
// body part. Only quoted-printable and base64 actually transform the content.
// Text that is left as 7bit only has its line breaks normalized to CRLF, and
// long lines of such text are reflowed as format=flowed (RFC 3676).
package transfer
