package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/numduel/numduel/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// Validation tests

func (s *ServiceSuite) TestValidateAcceptsFiveDigits() {
	s.NoError(ValidateDigits([]int{0, 1, 2, 3, 4}))
	s.NoError(ValidateDigits([]int{9, 9, 9, 9, 9}))
}

func (s *ServiceSuite) TestValidateRejectsWrongLength() {
	s.ErrorIs(ValidateDigits([]int{1, 2, 3, 4}), model.ErrInvalidDigits)
	s.ErrorIs(ValidateDigits([]int{1, 2, 3, 4, 5, 6}), model.ErrInvalidDigits)
	s.ErrorIs(ValidateDigits(nil), model.ErrInvalidDigits)
}

func (s *ServiceSuite) TestValidateRejectsOutOfRangeDigits() {
	s.ErrorIs(ValidateDigits([]int{1, 2, 3, 4, 10}), model.ErrInvalidDigits)
	s.ErrorIs(ValidateDigits([]int{-1, 2, 3, 4, 5}), model.ErrInvalidDigits)
}

// Scoring tests

func (s *ServiceSuite) TestScoreExactMiss() {
	fb := s.service.Score([]int{1, 2, 3, 4, 5}, []int{6, 7, 8, 9, 0})
	s.Equal(0, fb.ExactMatches)
	s.Equal(0, fb.ValueMatches)
}

func (s *ServiceSuite) TestScoreFullMatch() {
	fb := s.service.Score([]int{1, 2, 3, 4, 5}, []int{1, 2, 3, 4, 5})
	s.Equal(5, fb.ExactMatches)
	s.Equal(5, fb.ValueMatches)
}

func (s *ServiceSuite) TestScoreReversedSequence() {
	// All five values present, only the middle digit in position
	fb := s.service.Score([]int{1, 2, 3, 4, 5}, []int{5, 4, 3, 2, 1})
	s.Equal(1, fb.ExactMatches)
	s.Equal(5, fb.ValueMatches)
}

func (s *ServiceSuite) TestScoreDuplicatesCountPairwise() {
	// Guess has 1,1,2,2,3 against secret 1,2,2,3,3: matched values are
	// min-counted per digit, so one 1, two 2s, and one 3
	fb := s.service.Score([]int{1, 1, 2, 2, 3}, []int{1, 2, 2, 3, 3})
	s.Equal(2, fb.ExactMatches)
	s.Equal(4, fb.ValueMatches)
}

func (s *ServiceSuite) TestScoreDuplicateGuessAgainstSingleSecretDigit() {
	fb := s.service.Score([]int{7, 7, 7, 7, 7}, []int{7, 1, 2, 3, 4})
	s.Equal(1, fb.ExactMatches)
	s.Equal(1, fb.ValueMatches)
}

func (s *ServiceSuite) TestExactMatchesNeverExceedValueMatches() {
	cases := [][2][]int{
		{{1, 2, 3, 4, 5}, {1, 2, 9, 9, 9}},
		{{0, 0, 0, 0, 0}, {0, 1, 0, 1, 0}},
		{{5, 3, 1, 2, 4}, {1, 2, 3, 4, 5}},
	}
	for _, c := range cases {
		fb := s.service.Score(c[0], c[1])
		s.LessOrEqual(fb.ExactMatches, fb.ValueMatches)
	}
}

// Win detection tests

func (s *ServiceSuite) TestIsWinning() {
	s.True(IsWinning(model.Feedback{ExactMatches: 5, ValueMatches: 5}))
	s.False(IsWinning(model.Feedback{ExactMatches: 4, ValueMatches: 5}))
	s.False(IsWinning(model.Feedback{ExactMatches: 0, ValueMatches: 0}))
}
