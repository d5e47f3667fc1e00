package signal

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Voice-ly/backend-socket-service/internal/core"
)

// ConnTable tracks every live gateway connection for fan-out.
// Room-scoped sends resolve membership through the registry first and
// only then look up the transport here.
type ConnTable struct {
	mu    sync.RWMutex
	conns map[core.ConnectionID]*wsConn
}

func NewConnTable() *ConnTable {
	return &ConnTable{conns: make(map[core.ConnectionID]*wsConn)}
}

func (t *ConnTable) Bind(id core.ConnectionID, c *wsConn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns[id] = c
	log.Info().Str("module", "signal.table").Str("conn", string(id)).Msg("bound connection")
}

func (t *ConnTable) Unbind(id core.ConnectionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, id)
	log.Info().Str("module", "signal.table").Str("conn", string(id)).Msg("unbound connection")
}

func (t *ConnTable) Get(id core.ConnectionID) (*wsConn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.conns[id]
	return c, ok
}

func (t *ConnTable) All() []*wsConn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*wsConn, 0, len(t.conns))
	for _, c := range t.conns {
		out = append(out, c)
	}
	return out
}
