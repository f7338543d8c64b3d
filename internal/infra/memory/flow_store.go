package memory

import (
	"sync"

	"neuroscent-quiz/internal/app"
)

// FlowStore is an in-memory implementation of app.FlowStore.
type FlowStore struct {
	mu    sync.RWMutex
	flows map[string]*app.Flow
}

func NewFlowStore() *FlowStore {
	return &FlowStore{
		flows: make(map[string]*app.Flow),
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
	delete(s.flows, flowID)
}
