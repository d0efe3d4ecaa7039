// Package mimetype maps file names to media types for attachments that are
// added without an explicit Content-Type.
package mimetype

import (
	"mime"
	"path"
	"strings"
)

// Default is the media type returned when nothing better is known.
const Default = "application/octet-stream"

// builtin covers the extensions commonly attached to mail. These are checked
// before the system tables so the result does not depend on the host.
var builtin = map[string]string{
	"7z":   "application/x-7z-compressed",
	"bmp":  "image/bmp",
	"bz2":  "application/x-bzip2",
	"css":  "text/css",
	"csv":  "text/csv",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"eml":  "message/rfc822",
	"gif":  "image/gif",
	"gz":   "application/gzip",
	"htm":  "text/html",
	"html": "text/html",
	"ico":  "image/x-icon",
	"ics":  "text/calendar",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"js":   "application/javascript",
	"json": "application/json",
	"md":   "text/markdown",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"odt":  "application/vnd.oasis.opendocument.text",
	"pdf":  "application/pdf",
	"png":  "image/png",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"rtf":  "application/rtf",
	"svg":  "image/svg+xml",
	"tar":  "application/x-tar",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"txt":  "text/plain",
	"vcf":  "text/vcard",
	"wav":  "audio/wav",
	"webp": "image/webp",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xml":  "application/xml",
	"zip":  "application/zip",
}

// Extension returns the lower-cased extension of filename without the dot. A
// name without a dot is treated as being all extension.
func Extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if ix := strings.LastIndex(base, "."); ix >= 0 {
		base = base[ix+1:]
	}
	return strings.ToLower(base)
}

// Detect returns the media type for the extension of filename. Parameters the
// system tables attach, such as charset, are dropped. Unknown extensions give
// Default.
func Detect(filename string) string {
	ext := Extension(filename)
	if ext == "" {
		return Default
	}

	if mt, ok := builtin[ext]; ok {
		return mt
	}

	if mt := mime.TypeByExtension("." + ext); mt != "" {
		if mediaType, _, err := mime.ParseMediaType(mt); err == nil {
			return mediaType
		}
	}

	return Default
}
