package session

import (
	"testing"

	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	const (
		idle       = domain.StateIdle
		connecting = domain.StateConnecting
		open       = domain.StateOpen
		closed     = domain.StateClosed
		errored    = domain.StateErrored
	)

	tests := []struct {
		from  domain.ConnectionState
		event Event
		want  domain.ConnectionState
	}{
		{idle, EventBegin, connecting},
		{idle, EventOpen, idle},
		{idle, EventError, idle},
		{idle, EventRemoteClose, idle},
		{idle, EventLocalClose, closed},

		{connecting, EventBegin, connecting},
		{connecting, EventOpen, open},
		{connecting, EventError, errored},
		{connecting, EventRemoteClose, closed},
		{connecting, EventLocalClose, closed},

		{open, EventBegin, open},
		{open, EventOpen, open},
		{open, EventError, errored},
		{open, EventRemoteClose, closed},
		{open, EventLocalClose, closed},

		{errored, EventBegin, errored},
		{errored, EventOpen, errored},
		{errored, EventError, errored},
		{errored, EventRemoteClose, errored},
		{errored, EventLocalClose, closed},

		{closed, EventBegin, closed},
		{closed, EventOpen, closed},
		{closed, EventError, closed},
		{closed, EventRemoteClose, closed},
		{closed, EventLocalClose, closed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.from, tt.event))
		})
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "begin", EventBegin.String())
	assert.Equal(t, "remote_close", EventRemoteClose.String())
	assert.Equal(t, "unknown", Event(99).String())
}
