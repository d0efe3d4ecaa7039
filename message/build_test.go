package message_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimebuild/message"
	"github.com/zostay/go-mimebuild/message/header"
)

// split returns the header lines and the body of a built message.
func split(t *testing.T, msg string) ([]string, string) {
	t.Helper()
	head, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		head = strings.TrimSuffix(msg, "\r\n")
	}
	return strings.Split(head, "\r\n"), body
}

func build(t *testing.T, n *message.Node) string {
	t.Helper()
	msg, err := n.Build()
	require.NoError(t, err)
	return msg
}

func TestNode_Build_Root(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").
		SetHeaders(header.Map{
			"date":       "12345",
			"message-id": "67890",
		}).
		SetContent("Hello world!")

	expected := "Content-Type: text/plain\r\n" +
		"Date: 12345\r\n" +
		"Message-Id: <67890>\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"MIME-Version: 1.0\r\n" +
		"\r\n" +
		"Hello world!"

	assert.Equal(t, expected, build(t, mb))
}

func TestNode_Build_Child(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed")
	child := mb.CreateChild("text/plain").SetContent("Hello world!")

	expected := "Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		"Hello world!"

	assert.Equal(t, expected, build(t, child))
}

func TestNode_Build_Multipart(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed", message.WithBaseBoundary("test")).
		SetHeaders(header.Map{
			"date":       "12345",
			"message-id": "67890",
		})
	mb.CreateChild("text/plain").SetContent("Hello world!")

	expected := "Content-Type: multipart/mixed; boundary=\"----sinikael-?=_1-test\"\r\n" +
		"Date: 12345\r\n" +
		"Message-Id: <67890>\r\n" +
		"MIME-Version: 1.0\r\n" +
		"\r\n" +
		"------sinikael-?=_1-test\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		"Hello world!\r\n" +
		"------sinikael-?=_1-test--\r\n"

	assert.Equal(t, expected, build(t, mb))
	assert.Equal(t, "mixed", mb.Multipart())
	assert.Equal(t, "multipart/mixed", mb.ContentType())
	assert.Equal(t, "----sinikael-?=_1-test", mb.Boundary())
}

func TestNode_Build_MultipartShape(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed", message.WithBaseBoundary("shape")).
		SetHeader("Message-Id", "abc").
		SetHeader("Date", "today")
	a := mb.CreateChild("text/plain").SetContent("A")
	b := mb.CreateChild("text/plain").SetContent("B")

	msg := build(t, mb)
	aOut := build(t, a)
	bOut := build(t, b)

	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Type: multipart/mixed; boundary=\"----sinikael-?=_1-shape\"")

	boundary := mb.Boundary()
	assert.Equal(t, strings.Join([]string{
		"--" + boundary,
		aOut,
		"--" + boundary,
		bOut,
		"--" + boundary + "--",
		"",
	}, "\r\n"), body)
}

func TestNode_Build_NestedBoundaries(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed", message.WithBaseBoundary("test"))
	alt := mb.CreateChild("multipart/alternative")
	alt.CreateChild("text/plain").SetContent("Hello")

	msg := build(t, mb)
	assert.Equal(t, "----sinikael-?=_1-test", mb.Boundary())
	assert.Equal(t, "----sinikael-?=_2-test", alt.Boundary())
	assert.Contains(t, msg, "\r\n------sinikael-?=_2-test--\r\n")
}

func TestNode_Build_BoundaryStable(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed").
		SetHeader("Message-Id", "abc").
		SetHeader("Date", "today")
	mb.CreateChild("text/plain").SetContent("Hello")

	first := build(t, mb)
	b := mb.Boundary()
	assert.True(t, strings.HasPrefix(b, message.BoundaryPrefix+"1-"))

	assert.Equal(t, first, build(t, mb))
	assert.Equal(t, b, mb.Boundary())
}

func TestNode_Build_BoundaryPriority(t *testing.T) {
	t.Parallel()

	explicit := message.New("multipart/mixed; boundary=xyz").SetBoundary("abc")
	explicit.CreateChild("text/plain").SetContent("x")
	hdr, _ := split(t, build(t, explicit))
	assert.Contains(t, hdr, "Content-Type: multipart/mixed; boundary=xyz")
	assert.Equal(t, "xyz", explicit.Boundary())

	set := message.New("multipart/mixed").SetBoundary("abc")
	set.CreateChild("text/plain").SetContent("x")
	hdr, _ = split(t, build(t, set))
	assert.Contains(t, hdr, "Content-Type: multipart/mixed; boundary=abc")
}

func TestNode_Build_AddressNames(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").
		SetHeaders(header.Pairs{
			{Key: "From", Value: "John Doe <john@example.com>"},
			{Key: "To", Value: "j@x.com (John Doe), Jane Roe <jane@example.com>"},
			{Key: "Cc", Value: "My Friends: Joe Bloggs <joe@example.com>;"},
			{Key: "Message-Id", Value: "abc"},
			{Key: "Date", Value: "today"},
		}).
		SetContent("Hello")

	hdr, _ := split(t, build(t, mb))
	assert.Contains(t, hdr, "From: John Doe <john@example.com>")
	assert.Contains(t, hdr, "To: John Doe <j@x.com>, Jane Roe <jane@example.com>")
	assert.Contains(t, hdr, "Cc: My Friends:Joe Bloggs <joe@example.com>;")
}

func TestNode_Build_BoundaryCleared(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed", message.WithBaseBoundary("gone"))
	mb.CreateChild("text/plain").SetContent("x")
	build(t, mb)
	assert.Equal(t, "----sinikael-?=_1-gone", mb.Boundary())

	mb.Delete(header.ContentType)
	build(t, mb)
	assert.Equal(t, "", mb.Boundary())
	assert.Equal(t, "", mb.Multipart())

	mb.SetHeader(header.ContentType, "text/plain")
	build(t, mb)
	assert.Equal(t, "", mb.Boundary())

	set := message.New("multipart/mixed").SetBoundary("abc")
	set.Delete(header.ContentType)
	build(t, set)
	assert.Equal(t, "abc", set.Boundary())

	set.SetHeader(header.ContentType, "multipart/mixed")
	hdr, _ := split(t, build(t, set))
	assert.Contains(t, hdr, "Content-Type: multipart/mixed; boundary=abc")
}

func TestNode_Build_MultipartNoChildren(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed; boundary=abc").
		SetHeader("Message-Id", "abc").
		SetHeader("Date", "today")

	_, body := split(t, build(t, mb))
	assert.Equal(t, "", body)
}

func TestNode_Build_MultipartWithContent(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed; boundary=abc").
		SetHeader("Message-Id", "abc").
		SetHeader("Date", "today").
		SetContent("This is a multipart message.")
	mb.CreateChild("text/plain").SetContent("Hello")

	_, body := split(t, build(t, mb))
	assert.Equal(t, "This is a multipart message.\r\n"+
		"\r\n"+
		"--abc\r\n"+
		"Content-Type: text/plain\r\n"+
		"Content-Transfer-Encoding: 7bit\r\n"+
		"\r\n"+
		"Hello\r\n"+
		"--abc--\r\n", body)
}

func TestNode_Build_GeneratedHeaders(t *testing.T) {
	t.Parallel()

	date := time.Date(2023, 1, 28, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	msg := build(t, message.New("text/plain", message.WithDate(date)))

	hdr, body := split(t, msg)
	assert.Equal(t, "", body)
	require.Len(t, hdr, 4)
	assert.Equal(t, "Content-Type: text/plain", hdr[0])
	assert.Equal(t, "Date: Sat, 28 Jan 2023 11:00:00 +0000", hdr[1])
	assert.Regexp(t, `^Message-Id: <1674903600000(-[a-f0-9]{8}){3}@localhost>$`, hdr[2])
	assert.Equal(t, "MIME-Version: 1.0", hdr[3])
}

func TestNode_Build_GeneratedMessageIDDomain(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain").SetHeader("From", "Sender <sender@example.com>"))
	assert.Regexp(t, regexp.MustCompile(`(?m)^Message-Id: <\d+(-[a-f0-9]{8}){3}@example\.com>\r$`), msg)
}

func TestNode_Build_BlankRootHeaders(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain").
		SetHeader("Date", " ").
		SetHeader("MIME-Version", "1.0"))

	hdr, _ := split(t, msg)
	dates := 0
	versions := 0
	for _, line := range hdr {
		if strings.HasPrefix(line, "Date: ") {
			dates++
		}
		if strings.HasPrefix(line, "MIME-Version: ") {
			versions++
		}
	}
	assert.Equal(t, 1, dates)
	assert.Equal(t, 1, versions)
}

func TestNode_Build_ChildHasNoGeneratedHeaders(t *testing.T) {
	t.Parallel()

	mb := message.New("multipart/mixed")
	child := mb.CreateChild("text/plain")

	assert.Equal(t, "Content-Type: text/plain\r\n", build(t, child))
}

func TestNode_Build_SkipEmptyHeaders(t *testing.T) {
	t.Parallel()

	mb := message.New("").
		SetHeaders(header.Pairs{
			{Key: "a", Value: "b"},
			{Key: "cc", Value: ""},
			{Key: "date", Value: "zzz"},
			{Key: "message-id", Value: "67890"},
			{Key: "references", Value: ""},
		})

	hdr, _ := split(t, build(t, mb))
	assert.Equal(t, []string{
		"A: b",
		"Date: zzz",
		"Message-Id: <67890>",
		"MIME-Version: 1.0",
	}, hdr)
}

func TestNode_Build_Bcc(t *testing.T) {
	t.Parallel()

	fields := header.Pairs{
		{Key: "from", Value: "sender@example.com"},
		{Key: "to", Value: "receiver@example.com"},
		{Key: "bcc", Value: "bcc@example.com"},
	}

	mb := message.New("text/plain").SetHeaders(fields)
	hdr, _ := split(t, build(t, mb))
	assert.Contains(t, hdr, "From: sender@example.com")
	assert.Contains(t, hdr, "To: receiver@example.com")
	for _, line := range hdr {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
	}

	env, err := mb.Envelope()
	require.NoError(t, err)
	assert.Equal(t, &message.Envelope{
		From: "sender@example.com",
		To:   []string{"receiver@example.com", "bcc@example.com"},
	}, env)

	withBcc := message.New("text/plain", message.WithBccInHeader()).SetHeaders(fields)
	hdr, _ = split(t, build(t, withBcc))
	assert.Contains(t, hdr, "Bcc: bcc@example.com")

	env, err = withBcc.Envelope()
	require.NoError(t, err)
	assert.Equal(t, []string{"receiver@example.com", "bcc@example.com"}, env.To)
}

func TestNode_Build_UnicodeSubject(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").SetHeader("subject", "jõgeval istus kägu metsas")
	hdr, _ := split(t, build(t, mb))
	assert.Contains(t, hdr, "Subject: =?UTF-8?B?asO1Z2V2YWw=?= istus =?UTF-8?B?a8OkZ3U=?= metsas")
}

func TestNode_Build_Addresses(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").
		SetHeader("to", "the safewithme testuser <safewithme.testuser@jõgeva.com>")
	hdr, _ := split(t, build(t, mb))
	assert.Contains(t, hdr, "To: the safewithme testuser <safewithme.testuser@xn--jgeva-dua.com>")
}

func TestNode_Build_TransferEncodingString(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").
		SetHeader("Content-Transfer-Encoding", "quoted-printable").
		SetContent("JÕGEVA")

	_, body := split(t, build(t, mb))
	assert.Equal(t, "J=C3=95GEVA", body)
}

func TestNode_Build_BinaryContent(t *testing.T) {
	t.Parallel()

	arr := make([]byte, 256)
	for i := range arr {
		arr[i] = byte(i)
	}

	mb := message.New("text/plain").
		SetHeader("Content-Transfer-Encoding", "base64").
		SetBinaryContent(arr)

	expected := "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8gISIjJCUmJygpKissLS4vMDEyMzQ1Njc4\r\n" +
		"OTo7PD0+P0BBQkNERUZHSElKS0xNTk9QUVJTVFVWV1hZWltcXV5fYGFiY2RlZmdoaWprbG1ub3Bx\r\n" +
		"cnN0dXZ3eHl6e3x9fn+AgYKDhIWGh4iJiouMjY6PkJGSk5SVlpeYmZqbnJ2en6ChoqOkpaanqKmq\r\n" +
		"q6ytrq+wsbKztLW2t7i5uru8vb6/wMHCw8TFxsfIycrLzM3Oz9DR0tPU1dbX2Nna29zd3t/g4eLj\r\n" +
		"5OXm5+jp6uvs7e7v8PHy8/T19vf4+fr7/P3+/w=="

	_, body := split(t, build(t, mb))
	assert.Equal(t, expected, body)
}

func TestNode_Build_BinaryText(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").SetBinaryContent([]byte("jõgeva"))
	hdr, body := split(t, build(t, mb))
	assert.Contains(t, hdr, "Content-Type: text/plain")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: quoted-printable")
	assert.Equal(t, "j=C3=B5geva", body)
}

func TestNode_Build_Keep7bit(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain").SetContent("tere tere"))
	hdr, body := split(t, msg)
	assert.Equal(t, "tere tere", body)
	assert.Contains(t, hdr, "Content-Type: text/plain")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: 7bit")
}

func TestNode_Build_Flowed(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain").
		SetContent(strings.TrimSpace(strings.Repeat("tere ", 20))))

	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Type: text/plain; format=flowed")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: 7bit")
	assert.Equal(t, "tere tere tere tere tere tere tere tere tere tere tere tere tere tere tere \r\n"+
		"tere tere tere tere tere", body)
}

func TestNode_Build_FlowedStuffing(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain; format=flowed").
		SetContent("tere\r\nFrom\r\n Hello\r\n> abc\r\nabc"))

	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Type: text/plain; format=flowed")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: 7bit")
	assert.Equal(t, "tere\r\n From\r\n  Hello\r\n > abc\r\nabc", body)
}

func TestNode_Build_Charset(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain").SetContent("jõgeva"))

	hdr, body := split(t, msg)
	assert.Equal(t, "j=C3=B5geva", body)
	assert.Contains(t, hdr, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: quoted-printable")
}

func TestNode_Build_Base64(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("application/octet-stream").SetContent("Hello world!"))

	hdr, body := split(t, msg)
	assert.Equal(t, "SGVsbG8gd29ybGQh", body)
	assert.Contains(t, hdr, "Content-Transfer-Encoding: base64")
}

func TestNode_Build_UnknownTransferEncoding(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("application/x-custom").
		SetHeader("Content-Transfer-Encoding", "X-Custom").
		SetContent("abc\ndef"))

	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Transfer-Encoding: x-custom")
	assert.Equal(t, "abc\r\ndef", body)

	msg = build(t, message.New("text/plain").
		SetHeader("Content-Transfer-Encoding", "8bit").
		SetContent("abc"))

	hdr, _ = split(t, msg)
	assert.Contains(t, hdr, "Content-Transfer-Encoding: 7bit")
}

func TestNode_Build_Encoded(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("application/octet-stream", message.WithEncoded()).
		SetHeader("Content-Transfer-Encoding", "base64").
		SetContent("SGVs\nbG8="))

	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Transfer-Encoding: base64")
	assert.Equal(t, "SGVs\r\nbG8=", body)
}

func TestNode_Build_Filename(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain", message.WithFilename("jogeva.txt")).
		SetContent("jogeva"))

	hdr, body := split(t, msg)
	assert.Equal(t, "jogeva", body)
	assert.Contains(t, hdr, "Content-Type: text/plain; name=jogeva.txt")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: 7bit")
	assert.Contains(t, hdr, "Content-Disposition: attachment; filename=jogeva.txt")
}

func TestNode_Build_UnicodeFilename(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("text/plain", message.WithFilename("jõgeva.txt")).
		SetContent("jõgeva"))

	hdr, body := split(t, msg)
	assert.Equal(t, "j=C3=B5geva", body)
	assert.Contains(t, hdr, "Content-Type: text/plain; charset=utf-8; name*0*=utf-8''j%C3%B5geva.txt")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: quoted-printable")
	assert.Contains(t, hdr, "Content-Disposition: attachment; filename*0*=utf-8''j%C3%B5geva.txt")
}

func TestNode_Build_FilenameDisposition(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("image/png", message.WithFilename("logo.png")).
		SetHeader("Content-Disposition", "inline").
		SetHeader("Content-Id", "logo@example.com").
		SetBinaryContent([]byte{0x89, 'P', 'N', 'G'}))

	hdr, _ := split(t, msg)
	assert.Contains(t, hdr, "Content-Type: image/png; name=logo.png")
	assert.Contains(t, hdr, "Content-Disposition: inline; filename=logo.png")
	assert.Contains(t, hdr, "Content-Id: <logo@example.com>")
	assert.Contains(t, hdr, "Content-Transfer-Encoding: base64")
}

func TestNode_Build_DetectContentType(t *testing.T) {
	t.Parallel()

	msg := build(t, message.New("", message.WithFilename("jogeva.zip")).
		SetContent("jogeva"))

	hdr, _ := split(t, msg)
	assert.Contains(t, hdr, "Content-Type: application/zip; name=jogeva.zip")
}

func TestNode_Build_NoContentType(t *testing.T) {
	t.Parallel()

	n := message.New("").SetContent("abc")
	msg := build(t, n)
	hdr, body := split(t, msg)
	assert.Contains(t, hdr, "Content-Transfer-Encoding: base64")
	assert.Equal(t, "YWJj", body)
	assert.Equal(t, "", n.ContentType())
	assert.Equal(t, "", n.Multipart())
}

func TestNode_Build_LeavesHeaderAlone(t *testing.T) {
	t.Parallel()

	n := message.New("text/plain", message.WithFilename("a.txt")).SetContent("abc")
	before := n.Len()
	_ = build(t, n)

	assert.Equal(t, before, n.Len())
	ct, err := n.GetHeader("Content-Type")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.False(t, n.Has(header.ContentTransferEncoding))
	assert.False(t, n.Has(header.ContentDisposition))
}

func TestNode_WriteTo(t *testing.T) {
	t.Parallel()

	mb := message.New("text/plain").
		SetHeaders(header.Map{"date": "12345", "message-id": "67890"}).
		SetContent("Hello world!")

	buf := &bytes.Buffer{}
	n, err := mb.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, build(t, mb), buf.String())
}

func TestNode_Build_Logging(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	mb := message.New("multipart/mixed", message.WithLogger(logger), message.WithBaseBoundary("log"))
	mb.CreateChild("text/plain").SetContent("Hello")
	_ = build(t, mb)

	var builds []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Building MIME node" {
			builds = append(builds, e)
		}
	}

	require.Len(t, builds, 2)
	assert.Equal(t, logrus.DebugLevel, builds[0].Level)
	assert.Equal(t, 1, builds[0].Data["node"])
	assert.Equal(t, "multipart/mixed", builds[0].Data["contentType"])
	assert.Equal(t, "----sinikael-?=_1-log", builds[0].Data["boundary"])
	assert.Equal(t, 2, builds[1].Data["node"])
	assert.Equal(t, "7bit", builds[1].Data["transferEncoding"])
}
