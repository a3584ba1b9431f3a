package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailboxID(t *testing.T) {
	g := fixedIDs()
	assert.Equal(t, "#EV15000", g.MailboxID(0))
	assert.Equal(t, "#EV00007", g.MailboxID(1))
}

func TestTrackingID(t *testing.T) {
	assert.Equal(t, "#EV20261017-007", fixedIDs().TrackingID())
	assert.Regexp(t, `^#EV\d{8}-\d{3}$`, NewIDGenerator().TrackingID())
}

func TestNormalizeTrackingID(t *testing.T) {
	assert.Equal(t, "#EV20261017-007", NormalizeTrackingID("EV20261017-007"))
	assert.Equal(t, "#EV20261017-007", NormalizeTrackingID("#EV20261017-007"))
	assert.Equal(t, "", NormalizeTrackingID(""))
}
