package message

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMessageIDDomain is the domain used in a generated Message-Id when the
// envelope has no sender.
const DefaultMessageIDDomain = "localhost"

// GenerateMessageID returns a new message identifier, angle brackets included,
// of the form <millis-xxxxxxxx-xxxxxxxx-xxxxxxxx@domain>. The first part is t
// in milliseconds since the epoch and the rest is random hex.
func GenerateMessageID(t time.Time, domain string) string {
	if domain == "" {
		domain = DefaultMessageIDDomain
	}

	u := uuid.New()
	parts := []string{
		strconv.FormatInt(t.UnixMilli(), 10),
		hex.EncodeToString(u[0:4]),
		hex.EncodeToString(u[4:8]),
		hex.EncodeToString(u[8:12]),
	}

	return "<" + strings.Join(parts, "-") + "@" + domain + ">"
}

// messageIDDomain picks the domain of the envelope sender.
func messageIDDomain(from string) string {
	if ix := strings.LastIndex(from, "@"); ix >= 0 {
		from = from[ix+1:]
	}
	if from == "" {
		return DefaultMessageIDDomain
	}
	return from
}
