package scoring

import "github.com/numduel/numduel/internal/model"

// Service computes guess feedback. It is pure and deterministic: the same
// guess/secret pair always yields the same feedback.
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// ValidateDigits checks that a sequence is exactly 5 digits, each in [0, 9].
// Duplicates are allowed.
func ValidateDigits(digits []int) error {
	if len(digits) != model.SecretLength {
		return model.ErrInvalidDigits
	}
	for _, d := range digits {
		if d < 0 || d > 9 {
			return model.ErrInvalidDigits
		}
	}
	return nil
}

// Score computes feedback for a guess against a secret. Both sequences must
// already be validated; violating inputs are a caller bug.
//
// ValueMatches is the multiset intersection size: sum over digits of
// min(count in guess, count in secret). ExactMatches counts positions where
// the digits agree, so ExactMatches <= ValueMatches <= 5 always holds.
func (s *Service) Score(guess []int, secret model.Secret) model.Feedback {
	var guessHist, secretHist [10]int
	for i := 0; i < model.SecretLength; i++ {
		guessHist[guess[i]]++
		secretHist[secret[i]]++
	}

	var fb model.Feedback
	for d := 0; d < 10; d++ {
		fb.ValueMatches += min(guessHist[d], secretHist[d])
	}
	for i := 0; i < model.SecretLength; i++ {
		if guess[i] == secret[i] {
			fb.ExactMatches++
		}
	}
	return fb
}

// IsWinning reports whether the feedback represents a fully solved secret
func IsWinning(fb model.Feedback) bool {
	return fb.ExactMatches == model.SecretLength
}

// Interface for dependency injection
type ServiceInterface interface {
	Score(guess []int, secret model.Secret) model.Feedback
}

var _ ServiceInterface = (*Service)(nil)
