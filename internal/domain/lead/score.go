package lead

import "fmt"

// Score bounds. The score is operator supplied and never derived.
const (
	DefaultScore = 50
	MinScore     = 0
	MaxScore     = 100
)

// ValidateScore rejects values outside [MinScore, MaxScore].
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return invalid("score", fmt.Sprintf("must be between %d and %d", MinScore, MaxScore))
	}
	return nil
}
