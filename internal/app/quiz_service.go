package app

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"neuroscent-quiz/internal/catalog"
	"neuroscent-quiz/internal/domain"
)

// FlowStore abstracts how quiz flows are tracked (in-memory, Redis-marked, etc).
type FlowStore interface {
	GetOrCreate(flowID string) *Flow
	Get(flowID string) (*Flow, bool)
	Delete(flowID string)
}

// ScoringClient performs the remote calculate call. sessionID is already
// finalized by the caller and stamped into the wire payload.
type ScoringClient interface {
	Calculate(ctx context.Context, answers domain.AnswerSet, sessionID string) (domain.Result, error)
}

// SubmissionState enumerates the submission lifecycle of one flow.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateFailed     SubmissionState = "failed"
	StateSucceeded  SubmissionState = "succeeded"
)

// SubmissionStatus is the submission sub-state of a flow. Reason is set
// only when failed, TestID only when succeeded.
type SubmissionStatus struct {
	State  SubmissionState `json:"state"`
	Reason string          `json:"reason,omitempty"`
	TestID string          `json:"testId,omitempty"`
}

// QuestionState is the rendering-boundary view of the current position:
// everything a shell needs to draw input controls and the advance gate.
type QuestionState struct {
	Question   domain.Question  `json:"question"`
	Index      int              `json:"index"`
	Count      int              `json:"count"`
	CanAdvance bool             `json:"canAdvance"`
	Answer     domain.Answer    `json:"-"`
	Selected   []string         `json:"selected,omitempty"`
	Status     SubmissionStatus `json:"status"`
}

// QuizService sequences the sensory test: it walks the question catalog,
// collects answers, and drives the single submission exchange.
type QuizService struct {
	flows          FlowStore
	scoring        ScoringClient
	newSessionID   func() string
	reuseSessionID bool
}

func NewQuizService(flows FlowStore, scoring ScoringClient, newSessionID func() string) *QuizService {
	return &QuizService{flows: flows, scoring: scoring, newSessionID: newSessionID}
}

// NewQuizServiceWithSessionPolicy also fixes whether a retried submission
// reuses the session identifier minted for the first attempt. The default
// (false) mints a fresh one per attempt, matching the original client.
func NewQuizServiceWithSessionPolicy(flows FlowStore, scoring ScoringClient, newSessionID func() string, reuse bool) *QuizService {
	s := NewQuizService(flows, scoring, newSessionID)
	s.reuseSessionID = reuse
	return s
}

// NewFlow is exported for infrastructure layers that need to seed flows.
func NewFlow(id string) *Flow {
	return &Flow{id: id, answers: make(domain.AnswerSet), status: SubmissionStatus{State: StateIdle}}
}

// Start registers (or resumes) a flow and returns its current state.
func (s *QuizService) Start(flowID string) (QuestionState, error) {
	flow := s.flows.GetOrCreate(flowID)
	return flow.state()
}

// Current returns the question at the cursor plus the advance gate.
func (s *QuizService) Current(flowID string) (QuestionState, error) {
	flow, ok := s.flows.Get(flowID)
	if !ok {
		return QuestionState{}, domain.ErrFlowNotFound
	}
	return flow.state()
}

// Answer records value for the question at the cursor. Multiple-choice
// questions toggle membership of value; every other kind replaces the
// stored answer. No required-ness validation happens here.
func (s *QuizService) Answer(flowID, questionID, value string) (QuestionState, error) {
	flow, ok := s.flows.Get(flowID)
	if !ok {
		return QuestionState{}, domain.ErrFlowNotFound
	}
	if err := flow.answer(questionID, value); err != nil {
		return QuestionState{}, err
	}
	return flow.state()
}

// Back moves the cursor one question back. It is a no-op on the first
// question and rejected while a submission is in flight.
func (s *QuizService) Back(flowID string) (QuestionState, error) {
	flow, ok := s.flows.Get(flowID)
	if !ok {
		return QuestionState{}, domain.ErrFlowNotFound
	}
	if err := flow.stepBack(); err != nil {
		return QuestionState{}, err
	}
	return flow.state()
}

// Next advances the cursor, or, on the last question, finalizes the answer
// aggregate and performs the submission. On success the returned Result is
// non-nil and the flow is terminal; on failure the flow stays on the last
// question with a failed status and Next may be called again to retry.
func (s *QuizService) Next(ctx context.Context, flowID string) (SubmissionStatus, *domain.Result, error) {
	flow, ok := s.flows.Get(flowID)
	if !ok {
		return SubmissionStatus{}, nil, domain.ErrFlowNotFound
	}

	snapshot, sessionID, attempt, advanced, err := flow.beginNext(s.newSessionID, s.reuseSessionID)
	if err != nil {
		return SubmissionStatus{}, nil, err
	}
	if advanced {
		st, err := flow.state()
		if err != nil {
			return SubmissionStatus{}, nil, err
		}
		return st.Status, nil, nil
	}

	// The remote call is the sole suspension point; the flow lock is not
	// held across it, and submitting blocks all mutating operations.
	result, callErr := s.scoring.Calculate(ctx, snapshot, sessionID)

	status, applied := flow.finishSubmit(attempt, result, callErr)
	if !applied {
		// The flow was released or superseded while suspended; the late
		// response must not touch newer state.
		return SubmissionStatus{}, nil, domain.ErrFlowNotFound
	}
	if callErr != nil {
		return status, nil, callErr
	}
	return status, &result, nil
}

// Release drops the flow, discarding its answers. Any submission still in
// flight resolves silently without touching state.
func (s *QuizService) Release(flowID string) {
	flow, ok := s.flows.Get(flowID)
	if ok {
		flow.release()
	}
	s.flows.Delete(flowID)
}

// Flow is the state of one run through the questionnaire: a cursor into
// the catalog, the answer aggregate, and the submission status.
type Flow struct {
	id        string
	mu        sync.Mutex
	cursor    int
	answers   domain.AnswerSet
	status    SubmissionStatus
	attempt   int
	sessionID string
	released  bool
}

func (f *Flow) answer(questionID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutableLocked(); err != nil {
		return err
	}
	q, err := catalog.At(f.cursor)
	if err != nil {
		return err
	}
	if q.ID != questionID {
		return domain.ErrNotCurrentQuestion
	}

	switch q.Kind {
	case domain.KindMultiple:
		set, _ := f.answers[q.ID].(domain.MultiSelect)
		f.answers[q.ID] = set.Toggle(value)
	case domain.KindScale:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return domain.ErrAnswerShape
		}
		f.answers[q.ID] = domain.Number(n)
	default:
		f.answers[q.ID] = domain.Text(value)
	}
	return nil
}

func (f *Flow) stepBack() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutableLocked(); err != nil {
		return err
	}
	if f.cursor > 0 {
		f.cursor--
	}
	return nil
}

// beginNext validates the advance gate and either moves the cursor
// (advanced=true) or, on the last question, flips the flow to submitting
// and hands back a finalized snapshot for the remote call.
func (f *Flow) beginNext(newSessionID func() string, reuse bool) (snapshot domain.AnswerSet, sessionID string, attempt int, advanced bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutableLocked(); err != nil {
		return nil, "", 0, false, err
	}
	q, err := catalog.At(f.cursor)
	if err != nil {
		return nil, "", 0, false, err
	}
	if !canAdvance(q, f.answers) {
		return nil, "", 0, false, domain.ErrAnswerRequired
	}

	if f.cursor < catalog.Count()-1 {
		f.cursor++
		return nil, "", 0, true, nil
	}

	// Finalization: ownership of the aggregate transfers by value.
	if !reuse || f.sessionID == "" {
		f.sessionID = newSessionID()
	}
	f.attempt++
	f.status = SubmissionStatus{State: StateSubmitting}
	return f.answers.Clone(), f.sessionID, f.attempt, false, nil
}

// finishSubmit applies the outcome of attempt unless the flow was released
// or a newer attempt superseded it while the call was suspended.
func (f *Flow) finishSubmit(attempt int, result domain.Result, callErr error) (SubmissionStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released || f.attempt != attempt {
		return SubmissionStatus{}, false
	}
	if callErr != nil {
		reason := domain.GenericSubmissionMessage
		var subErr *domain.SubmissionError
		if errors.As(callErr, &subErr) && subErr.Message != "" {
			reason = subErr.Message
		}
		f.status = SubmissionStatus{State: StateFailed, Reason: reason}
	} else {
		f.status = SubmissionStatus{State: StateSucceeded, TestID: result.TestID}
	}
	return f.status, true
}

func (f *Flow) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *Flow) state() (QuestionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, err := catalog.At(f.cursor)
	if err != nil {
		return QuestionState{}, err
	}
	st := QuestionState{
		Question:   q,
		Index:      f.cursor,
		Count:      catalog.Count(),
		CanAdvance: canAdvance(q, f.answers),
		Answer:     f.answers[q.ID],
		Status:     f.status,
	}
	switch ans := f.answers[q.ID].(type) {
	case domain.MultiSelect:
		st.Selected, _ = ans.Wire().([]string)
	case domain.Text:
		if ans != "" {
			st.Selected = []string{string(ans)}
		}
	case domain.Number:
		st.Selected = []string{strconv.FormatFloat(float64(ans), 'f', -1, 64)}
	}
	return st, nil
}

// mutableLocked gates answer/back/next: mutations are rejected while a
// submission is suspended and once the flow has succeeded.
func (f *Flow) mutableLocked() error {
	switch f.status.State {
	case StateSubmitting:
		return domain.ErrSubmitInFlight
	case StateSucceeded:
		return domain.ErrFlowFinished
	}
	return nil
}

// canAdvance is the advisory validation gate: optional questions always
// pass; required ones need a present, non-empty answer.
func canAdvance(q domain.Question, answers domain.AnswerSet) bool {
	if !q.Required {
		return true
	}
	ans, ok := answers[q.ID]
	return ok && !ans.Empty()
}
