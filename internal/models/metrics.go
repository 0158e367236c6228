package models

// Sentiment category thresholds used by SentimentMetrics
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// SentimentMetrics accumulates a population of sentiment scores
type SentimentMetrics struct {
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	TotalItems    int     `json:"total_items"`
	AverageScore  float64 `json:"average_score"`
}

// Add records one score and updates the running mean
func (m *SentimentMetrics) Add(score float64) {
	m.TotalItems++

	switch {
	case score > PositiveThreshold:
		m.PositiveCount++
	case score < NegativeThreshold:
		m.NegativeCount++
	default:
		m.NeutralCount++
	}

	m.AverageScore += (score - m.AverageScore) / float64(m.TotalItems)
}

// Distribution returns the share of each category in percent
func (m SentimentMetrics) Distribution() map[string]float64 {
	if m.TotalItems == 0 {
		return map[string]float64{"positive": 0, "negative": 0, "neutral": 0}
	}
	total := float64(m.TotalItems)
	return map[string]float64{
		"positive": float64(m.PositiveCount) / total * 100,
		"negative": float64(m.NegativeCount) / total * 100,
		"neutral":  float64(m.NeutralCount) / total * 100,
	}
}

// Status tags the outcome of an aggregate computation
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
	StatusError            Status = "error"
)

// Result wraps an aggregate report so callers can tell a computed zero
// apart from a report that could not be computed.
type Result[T any] struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Report T      `json:"report"`
}

func OK[T any](report T) Result[T] {
	return Result[T]{Status: StatusOK, Report: report}
}

func Insufficient[T any](reason string) Result[T] {
	return Result[T]{Status: StatusInsufficientData, Reason: reason}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Reason: err.Error()}
}

func (r Result[T]) IsOK() bool {
	return r.Status == StatusOK
}
