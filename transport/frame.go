package transport

import (
	"time"

	"github.com/ystepanoff/gowmbus/stack"
)

// Frame is one fully-assembled wM-Bus frame as delivered by a Controller's
// receive session: the decoded Packet plus the metadata the stack codec
// itself doesn't carry — when the frame started arriving and at what signal
// strength.
type Frame struct {
	Packet    stack.Packet
	Raw       []byte
	Timestamp time.Time
	RSSI      RSSI
}
