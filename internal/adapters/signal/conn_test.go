package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySendBackpressure(t *testing.T) {
	c := newWSConn(nil, 2)

	require.NoError(t, c.TrySend([]byte("a")))
	require.NoError(t, c.TrySend([]byte("b")))
	// Queue full: the frame is dropped, not blocked on.
	assert.ErrorIs(t, c.TrySend([]byte("c")), ErrBackpressure)
}

func TestTrySendAfterClose(t *testing.T) {
	c := newWSConn(nil, 2)
	c.closed = true // avoid touching the nil websocket in Close

	err := c.TrySend([]byte("a"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBackpressure)
}

func TestConnTableBindUnbind(t *testing.T) {
	tbl := NewConnTable()
	a := newWSConn(nil, 1)
	b := newWSConn(nil, 1)

	tbl.Bind("c1", a)
	tbl.Bind("c2", b)
	assert.Len(t, tbl.All(), 2)

	got, ok := tbl.Get("c1")
	require.True(t, ok)
	assert.Same(t, a, got)

	tbl.Unbind("c1")
	_, ok = tbl.Get("c1")
	assert.False(t, ok)
	assert.Len(t, tbl.All(), 1)
}
