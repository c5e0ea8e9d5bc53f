package feedback

import "sync"

// AnswerKind tags which field of an Answer holds the value.
type AnswerKind int

const (
	KindRating AnswerKind = iota + 1
	KindText
)

func (k AnswerKind) String() string {
	switch k {
	case KindRating:
		return "rating"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Answer is the value recorded for one question. Only the field matching Kind is meaningful.
type Answer struct {
	Kind   AnswerKind
	Rating int
	Text   string
}

// Collector accumulates answers keyed by question id. Writes are last-write-wins
// and unvalidated; validation happens in BuildSubmission.
type Collector struct {
	mu      sync.RWMutex
	answers map[string]Answer
}

func NewCollector() *Collector {
	return &Collector{answers: make(map[string]Answer)}
}

// SetRating records a rating for the question, replacing any previous answer.
func (c *Collector) SetRating(questionID string, rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[questionID] = Answer{Kind: KindRating, Rating: rating}
}

// SetText records a text answer for the question, replacing any previous answer.
func (c *Collector) SetText(questionID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[questionID] = Answer{Kind: KindText, Text: text}
}

// Get returns the answer recorded for the question.
func (c *Collector) Get(questionID string) (Answer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.answers[questionID]
	return a, ok
}

// Rating returns the recorded rating, if the question holds one.
func (c *Collector) Rating(questionID string) (int, bool) {
	a, ok := c.Get(questionID)
	if !ok || a.Kind != KindRating {
		return 0, false
	}
	return a.Rating, true
}

// Text returns the recorded text, if the question holds one.
func (c *Collector) Text(questionID string) (string, bool) {
	a, ok := c.Get(questionID)
	if !ok || a.Kind != KindText {
		return "", false
	}
	return a.Text, true
}

func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.answers)
}

// Reset drops every recorded answer.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers = make(map[string]Answer)
}
