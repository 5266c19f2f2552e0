package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"

	"github.com/forgeline/craft-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "recipe not in catalog",
			expected: "NOT_FOUND: recipe not in catalog",
		},
		{
			name:     "not eligible error",
			code:     errors.CodeNotEligible,
			message:  "specialty not unlocked",
			expected: "NOT_ELIGIBLE: specialty not unlocked",
		},
		{
			name:     "insufficient resources error",
			code:     errors.CodeInsufficientResources,
			message:  "inventory short",
			expected: "INSUFFICIENT_RESOURCES: inventory short",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotEligible("level too low").
		WithMeta("character_id", "char_123").
		WithMeta("recipe_id", "iron_ingot")

	s.Assert().Equal("char_123", err.Meta["character_id"])
	s.Assert().Equal("iron_ingot", err.Meta["recipe_id"])
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	base := errors.NotFound("resource not in catalog")
	wrapped := errors.Wrap(base, "failed to resolve recipe inputs")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("failed to resolve recipe inputs", wrapped.Message)
	s.Assert().ErrorIs(wrapped, base)
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	base := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(base, "failed to append history record")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().ErrorIs(wrapped, base)
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	base := fmt.Errorf("connection refused")
	wrapped := errors.WrapWithCode(base, errors.CodeUnavailable, "history sink unavailable")

	s.Assert().Equal(errors.CodeUnavailable, wrapped.Code)
	s.Assert().True(errors.IsUnavailable(wrapped))
}

func (s *ErrorsTestSuite) TestCycleDetected() {
	err := errors.CycleDetected([]string{"iron_ingot", "iron_plate", "iron_ingot"})

	s.Assert().Equal(errors.CodeCycleDetected, err.Code)
	s.Assert().Contains(err.Message, "iron_ingot -> iron_plate -> iron_ingot")
	s.Assert().Equal([]string{"iron_ingot", "iron_plate", "iron_ingot"}, err.Meta["path"])
	s.Assert().True(errors.IsCycleDetected(err))
}

func (s *ErrorsTestSuite) TestTypeCheckers() {
	s.Assert().True(errors.IsNotEligible(errors.NotEligible("gate failed")))
	s.Assert().True(errors.IsInsufficientResources(errors.InsufficientResources("short")))
	s.Assert().True(errors.IsConcurrentConflict(errors.ConcurrentConflict("retry exhausted")))
	s.Assert().False(errors.IsNotEligible(errors.Internal("boom")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestIsUserFacing() {
	s.Assert().True(errors.IsUserFacing(errors.NotEligible("gate failed")))
	s.Assert().True(errors.IsUserFacing(errors.InsufficientResources("short")))
	s.Assert().True(errors.IsUserFacing(errors.NotFound("unknown recipe")))
	s.Assert().False(errors.IsUserFacing(errors.Unavailable("redis down")))
	s.Assert().False(errors.IsUserFacing(errors.ConcurrentConflict("retry exhausted")))
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeNotEligible, codes.PermissionDenied},
		{errors.CodeInsufficientResources, codes.FailedPrecondition},
		{errors.CodeCycleDetected, codes.FailedPrecondition},
		{errors.CodeConcurrentConflict, codes.Aborted},
		{errors.CodeUnavailable, codes.Unavailable},
		{errors.CodeInternal, codes.Internal},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("CharacterID")
	vb.Fieldf("Quantity", "must be positive, got %d", -1)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	empty := errors.NewValidationBuilder().Build()
	s.Assert().NoError(empty)
}
