package repository

import (
	"fmt"
	"math/rand"
	"time"
)

// idPrefix starts every mailbox and tracking identifier.
const idPrefix = "#EV"

// maxIDAttempts bounds insert retries after a generated id collides.
const maxIDAttempts = 5

// IDGenerator derives mailbox and tracking ids.  Now and IntN are fields
// so tests can pin them.
type IDGenerator struct {
	Now  func() time.Time
	IntN func(n int) int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{Now: time.Now, IntN: rand.Intn}
}

// MailboxID returns the prefix and five digits.  The first attempt uses the
// low digits of the current millisecond clock; retries draw random digits
// since the clock has likely not moved.
func (g *IDGenerator) MailboxID(attempt int) string {
	n := int(g.Now().UnixMilli() % 100000)
	if attempt > 0 {
		n = g.IntN(100000)
	}
	return fmt.Sprintf("%s%05d", idPrefix, n)
}

// TrackingID returns #EV{yyyy}{mm}{dd}-{nnn} for the current UTC date and a
// random three digit sequence.
func (g *IDGenerator) TrackingID() string {
	return fmt.Sprintf("%s%s-%03d", idPrefix, g.Now().UTC().Format("20060102"), g.IntN(1000))
}

// NormalizeTrackingID trims the id and restores the leading '#' that is
// awkward to carry in a URL path.
func NormalizeTrackingID(id string) string {
	if id == "" || id[0] == '#' {
		return id
	}
	return "#" + id
}

// now returns the generator clock in UTC truncated to DATETIME precision.
func (g *IDGenerator) now() time.Time {
	return g.Now().UTC().Truncate(time.Second)
}
