package domain

import "errors"

var (
	// ErrFlowNotFound is returned when a quiz flow has not been initialized.
	ErrFlowNotFound = errors.New("quiz flow not found")
	// ErrQuestionIndex indicates the cursor desynchronized from the catalog bounds.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrNotCurrentQuestion is returned when an answer targets a question
	// other than the one at the cursor.
	ErrNotCurrentQuestion = errors.New("answer does not target the current question")
	// ErrAnswerShape is returned when an answer value does not match the
	// question kind (e.g. a number for a free-text question).
	ErrAnswerShape = errors.New("answer value does not match question kind")
	// ErrAnswerRequired blocks advancing past a required question that has
	// no answer yet. It is a local gate, never shown as a message.
	ErrAnswerRequired = errors.New("current question requires an answer")
	// ErrSubmitInFlight rejects mutating operations while a submission is pending.
	ErrSubmitInFlight = errors.New("submission in flight")
	// ErrFlowFinished rejects operations on a flow that already succeeded.
	ErrFlowFinished = errors.New("quiz flow already completed")
	// ErrResultNotFound indicates the result identifier is unknown to the scoring service.
	ErrResultNotFound = errors.New("test result not found")
	// ErrInvalidResultID indicates a syntactically malformed result identifier.
	ErrInvalidResultID = errors.New("invalid test result id")
)

// SubmissionError is a retryable failure of the calculate call. Message is
// safe to show to the user; the server-supplied detail is preferred over
// the generic fallback.
type SubmissionError struct {
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string { return "submission failed: " + e.Message }

func (e *SubmissionError) Unwrap() error { return e.Cause }

// GenericSubmissionMessage is used when the server supplied no displayable detail.
const GenericSubmissionMessage = "The test could not be processed. Please try again."
