package client

import (
	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// agentCache is the optional read-through cache for agent config GETs.
// Values are independent clones in both directions so cached state can
// never alias a caller's copy.
type agentCache struct {
	cache *ristretto.Cache
}

func newAgentCache() (*agentCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &agentCache{cache: cache}, nil
}

func (a *agentCache) get(agentID uuid.UUID) (*core.AgentState, bool) {
	v, ok := a.cache.Get(agentID.String())
	if !ok {
		return nil, false
	}
	state, ok := v.(*core.AgentState)
	if !ok {
		return nil, false
	}
	return state.Clone(), true
}

func (a *agentCache) put(state *core.AgentState) {
	a.cache.Set(state.ID.String(), state.Clone(), 1)
}

func (a *agentCache) evict(agentID uuid.UUID) {
	a.cache.Del(agentID.String())
}

func (a *agentCache) close() {
	a.cache.Close()
}
