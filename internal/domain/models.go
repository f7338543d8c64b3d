package domain

import "sort"

// QuestionKind discriminates how a question is presented and answered.
type QuestionKind string

const (
	KindScale    QuestionKind = "scale"
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
	KindText     QuestionKind = "text"
)

// Option is one selectable choice of a scale/single/multiple question.
// Values are unique within a question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is an immutable descriptor from the static catalog.
type Question struct {
	ID       string       `json:"id"`
	Kind     QuestionKind `json:"kind"`
	Prompt   string       `json:"prompt"`
	Options  []Option     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// Answer is a closed variant: Text, Number, or MultiSelect. Reads and
// writes switch on the concrete type rather than inspecting payloads.
type Answer interface {
	// Empty reports whether the answer counts as absent for the
	// required-question gate.
	Empty() bool
	// Wire returns the value as it appears in the submission payload.
	Wire() any
}

// Text answers free-text and single-choice questions.
type Text string

func (t Text) Empty() bool { return t == "" }
func (t Text) Wire() any   { return string(t) }

// Number answers scale questions.
type Number float64

func (n Number) Empty() bool { return false }
func (n Number) Wire() any   { return float64(n) }

// MultiSelect answers multiple-choice questions. Membership is unique,
// insertion order carries no meaning.
type MultiSelect map[string]struct{}

func (m MultiSelect) Empty() bool { return len(m) == 0 }

// Wire serializes the set as a sorted slice so payload bytes are stable.
func (m MultiSelect) Wire() any {
	values := make([]string, 0, len(m))
	for v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Toggle flips membership of value and returns the updated set.
func (m MultiSelect) Toggle(value string) MultiSelect {
	if m == nil {
		m = make(MultiSelect)
	}
	if _, ok := m[value]; ok {
		delete(m, value)
	} else {
		m[value] = struct{}{}
	}
	return m
}

// Has reports membership of value.
func (m MultiSelect) Has(value string) bool {
	_, ok := m[value]
	return ok
}

// AnswerSet is the in-progress record of all answers for one quiz flow,
// keyed by question ID. A key exists only once its question was answered.
type AnswerSet map[string]Answer

// Clone returns an independent copy; MultiSelect sets are copied so later
// toggles cannot mutate a finalized submission.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for id, ans := range a {
		if set, ok := ans.(MultiSelect); ok {
			cp := make(MultiSelect, len(set))
			for v := range set {
				cp[v] = struct{}{}
			}
			out[id] = cp
			continue
		}
		out[id] = ans
	}
	return out
}

// Payload flattens the set into the wire record, stamped with sessionID.
func (a AnswerSet) Payload(sessionID string) map[string]any {
	record := make(map[string]any, len(a)+1)
	for id, ans := range a {
		record[id] = ans.Wire()
	}
	record["session_id"] = sessionID
	return record
}

// Perfume is one recommended product as returned by the scoring service.
type Perfume struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	PurchaseURL string `json:"purchase_url,omitempty"`
}

// Affinity scores the relationship between the derived profile and one
// perfume. Score is in [0,100]; Level and the texts are server copy.
type Affinity struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
}

// Match pairs a perfume with its affinity.
type Match struct {
	Perfume  Perfume  `json:"perfume"`
	Affinity Affinity `json:"affinity"`
}

// OlfactoryProfile is the seven-axis preference vector, each axis in [0,1].
type OlfactoryProfile struct {
	ID        string  `json:"id"`
	Intensity float64 `json:"intensity"`
	Citrus    float64 `json:"citrus"`
	Floral    float64 `json:"floral"`
	Woody     float64 `json:"woody"`
	Sweet     float64 `json:"sweet"`
	Spicy     float64 `json:"spicy"`
	Green     float64 `json:"green"`
	Aquatic   float64 `json:"aquatic"`
	Emotion   string  `json:"emotion,omitempty"`
	Season    string  `json:"season,omitempty"`
}

// ResultMetadata carries server bookkeeping about one completed test.
type ResultMetadata struct {
	TotalPerfumesAnalyzed int    `json:"total_perfumes_analyzed"`
	TopMatchCount         int    `json:"top_match_count"`
	TestCompletedAt       string `json:"test_completed_at"`
}

// Result is the ranked outcome of one completed test. Matches arrive
// sorted by descending affinity; that order is authoritative here.
type Result struct {
	TestID    string            `json:"test_id"`
	UserID    string            `json:"user_id"`
	ProfileID string            `json:"profile_id"`
	Profile   *OlfactoryProfile `json:"olfactory_profile,omitempty"`
	Matches   []Match           `json:"results"`
	Metadata  ResultMetadata    `json:"metadata"`
}
