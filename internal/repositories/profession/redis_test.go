package profession_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/forgeline/craft-api/internal/errors"
	"github.com/forgeline/craft-api/internal/repositories/profession"
	"github.com/forgeline/craft-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    profession.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := profession.NewRedisRepository(&profession.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, profession.CreateInput{
		State: testutils.CreateBlacksmithState(),
	})
	s.Require().NoError(err)
	s.Equal(int64(1), created.State.Version)

	got, err := s.repo.Get(s.ctx, profession.GetInput{
		CharacterID:  testutils.TestCharacterID,
		ProfessionID: testutils.ProfessionBlacksmith,
	})
	s.Require().NoError(err)
	s.Equal(int32(5), got.State.Level)
	s.Equal(int64(400), got.State.XP)
	s.Equal([]string{testutils.SpecialtyIronworking}, got.State.UnlockedSpecialtyIDs)
}

func (s *RedisRepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, profession.GetInput{
		CharacterID:  "char_unknown",
		ProfessionID: testutils.ProfessionBlacksmith,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestCreate_Duplicate() {
	_, err := s.repo.Create(s.ctx, profession.CreateInput{State: testutils.CreateBlacksmithState()})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, profession.CreateInput{State: testutils.CreateBlacksmithState()})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestCompareAndSwap() {
	created, err := s.repo.Create(s.ctx, profession.CreateInput{
		State: testutils.CreateBlacksmithState(),
	})
	s.Require().NoError(err)

	s.Run("matching version swaps", func() {
		updated := *created.State
		updated.XP = 450

		out, err := s.repo.CompareAndSwap(s.ctx, profession.CompareAndSwapInput{
			Old: created.State,
			New: &updated,
		})
		s.Require().NoError(err)
		s.True(out.Swapped)
		s.Equal(int64(2), out.State.Version)

		got, err := s.repo.Get(s.ctx, profession.GetInput{
			CharacterID:  testutils.TestCharacterID,
			ProfessionID: testutils.ProfessionBlacksmith,
		})
		s.Require().NoError(err)
		s.Equal(int64(450), got.State.XP)
	})

	s.Run("stale version does not swap", func() {
		stale := *created.State // still version 1
		stale.XP = 9999

		out, err := s.repo.CompareAndSwap(s.ctx, profession.CompareAndSwapInput{
			Old: &stale,
			New: &stale,
		})
		s.Require().NoError(err)
		s.False(out.Swapped)

		got, err := s.repo.Get(s.ctx, profession.GetInput{
			CharacterID:  testutils.TestCharacterID,
			ProfessionID: testutils.ProfessionBlacksmith,
		})
		s.Require().NoError(err)
		s.Equal(int64(450), got.State.XP, "lost update prevented")
	})
}

func TestInMemoryCompareAndSwap(t *testing.T) {
	repo := profession.NewInMemory()
	ctx := context.Background()

	created, err := repo.Create(ctx, profession.CreateInput{State: testutils.CreateBlacksmithState()})
	if err != nil {
		t.Fatal(err)
	}

	first := *created.State
	first.XP = 500
	out, err := repo.CompareAndSwap(ctx, profession.CompareAndSwapInput{Old: created.State, New: &first})
	if err != nil || !out.Swapped {
		t.Fatalf("first swap failed: %v", err)
	}

	second := *created.State // stale version
	second.XP = 600
	out, err = repo.CompareAndSwap(ctx, profession.CompareAndSwapInput{Old: created.State, New: &second})
	if err != nil {
		t.Fatal(err)
	}
	if out.Swapped {
		t.Fatal("stale swap must be rejected")
	}

	got, err := repo.Get(ctx, profession.GetInput{
		CharacterID:  testutils.TestCharacterID,
		ProfessionID: testutils.ProfessionBlacksmith,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.State.XP != 500 {
		t.Fatalf("expected XP 500, got %d", got.State.XP)
	}
}
