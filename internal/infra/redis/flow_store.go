package redis

import (
	"context"
	"sync"
	"time"

	"neuroscent-quiz/internal/app"

	"github.com/redis/go-redis/v9"
)

// FlowStore is a Redis-aware implementation of app.FlowStore.
// Notes:
//   - Flow state itself stays in this process; the state machine owns it
//     exclusively for the lifetime of one questionnaire run.
//   - Redis only marks flow liveness with a TTL key, giving sibling
//     instances (and operators) visibility into active flows.
type FlowStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	flows  map[string]*app.Flow
}

func NewFlowStore(client *redis.Client, ttl time.Duration) *FlowStore {
	return &FlowStore{
		client: client,
		ttl:    ttl,
		flows:  make(map[string]*app.Flow),
	}
}

func (s *FlowStore) GetOrCreate(flowID string) *app.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flow, ok := s.flows[flowID]; ok {
		return flow
	}
	flow := app.NewFlow(flowID)
	s.flows[flowID] = flow
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(flowID), "1", s.ttl).Err()
	return flow
}

func (s *FlowStore) Get(flowID string) (*app.Flow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flow, ok := s.flows[flowID]
	return flow, ok
}

func (s *FlowStore) Delete(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[flowID]; !ok {
		return
	}
	delete(s.flows, flowID)
	_ = s.client.Del(context.Background(), s.key(flowID)).Err()
}

func (s *FlowStore) key(flowID string) string {
	return "quiz:flow:" + flowID
}
