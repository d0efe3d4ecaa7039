package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, content, 0o600))
	return fn
}

func TestComposeOptions_Message(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := &composeOptions{
		from:         "Sender <sender@example.com>",
		to:           []string{"a@example.com", "b@example.com"},
		bcc:          []string{"c@example.com"},
		subject:      "Report",
		date:         "Sat, 28 Jan 2023 11:00:00 +0000",
		headers:      []string{"X-Mailer: mailbuild"},
		text:         writeFile(t, dir, "body.txt", []byte("Hello")),
		html:         writeFile(t, dir, "body.html", []byte("<b>Hello</b>")),
		attach:       []string{writeFile(t, dir, "report.pdf", []byte("%PDF-1."))},
		charset:      "utf-8",
		baseBoundary: "test",
	}

	msg, err := c.Message()
	require.NoError(t, err)

	assert.True(t, msg.IsRoot())
	require.Len(t, msg.Children(), 2)

	alt := msg.Children()[0]
	assert.True(t, alt.IsMultipart())
	assert.Same(t, msg, alt.Root())
	assert.Len(t, alt.Children(), 2)

	pdf := msg.Children()[1]
	assert.Equal(t, "report.pdf", pdf.Filename())
	ct, err := pdf.GetHeader("Content-Type")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	mailer, err := msg.GetHeader("X-Mailer")
	require.NoError(t, err)
	assert.Equal(t, "mailbuild", mailer)

	out, err := msg.Build()
	require.NoError(t, err)
	assert.Contains(t, out, "Content-Type: multipart/mixed; boundary=\"----sinikael-?=_1-test\"\r\n")
	assert.Contains(t, out, "Date: Sat, 28 Jan 2023 11:00:00 +0000\r\n")
	assert.Contains(t, out, "Content-Disposition: attachment; filename=report.pdf\r\n")
	assert.NotContains(t, out, "Bcc:")

	env, err := msg.Envelope()
	require.NoError(t, err)
	assert.Equal(t, "sender@example.com", env.From)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, env.To)
}

func TestComposeOptions_Message_Charset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := &composeOptions{
		text:    writeFile(t, dir, "latin1.txt", []byte{'j', 0xf5, 'g', 'e', 'v', 'a'}),
		charset: "iso-8859-1",
	}

	msg, err := c.Message()
	require.NoError(t, err)

	content, _ := msg.Content()
	assert.Equal(t, "jõgeva", content)
}

func TestComposeOptions_Message_BadHeader(t *testing.T) {
	t.Parallel()

	c := &composeOptions{headers: []string{"no colon here"}}
	_, err := c.Message()
	assert.Error(t, err)
}
