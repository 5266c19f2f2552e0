package workshop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	"github.com/forgeline/craft-api/internal/repositories/workshop"
	"github.com/forgeline/craft-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    workshop.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := workshop.NewRedisRepository(&workshop.RedisConfig{Client: client})
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

func (s *RedisRepositoryTestSuite) forge() *crafting.Workshop {
	return &crafting.Workshop{
		ID:            testutils.TestWorkshopID,
		OwnerID:       "guild_emberfall",
		Shared:        true,
		Durability:    100,
		MaxDurability: 100,
	}
}

func (s *RedisRepositoryTestSuite) TestPutAndGet() {
	_, err := s.repo.Put(s.ctx, workshop.PutInput{Workshop: s.forge()})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, workshop.GetInput{WorkshopID: testutils.TestWorkshopID})
	s.Require().NoError(err)
	s.Equal(int32(100), got.Workshop.Durability)
	s.True(got.Workshop.Shared)
}

func (s *RedisRepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, workshop.GetInput{WorkshopID: "forge_missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestConditionalDecrement() {
	_, err := s.repo.Put(s.ctx, workshop.PutInput{Workshop: s.forge()})
	s.Require().NoError(err)

	out, err := s.repo.ConditionalDecrement(s.ctx, workshop.ConditionalDecrementInput{
		WorkshopID: testutils.TestWorkshopID,
		Cost:       5,
	})
	s.Require().NoError(err)
	s.Equal(int32(100), out.DurabilityBefore)
	s.Equal(int32(95), out.DurabilityAfter)
	s.False(out.NeedsRepair)
}

func (s *RedisRepositoryTestSuite) TestConditionalDecrement_ClampsAtZero() {
	ws := s.forge()
	ws.Durability = 3
	_, err := s.repo.Put(s.ctx, workshop.PutInput{Workshop: ws})
	s.Require().NoError(err)

	out, err := s.repo.ConditionalDecrement(s.ctx, workshop.ConditionalDecrementInput{
		WorkshopID: testutils.TestWorkshopID,
		Cost:       10,
	})
	s.Require().NoError(err)
	s.Equal(int32(3), out.DurabilityBefore)
	s.Equal(int32(0), out.DurabilityAfter)
	s.True(out.NeedsRepair)

	got, err := s.repo.Get(s.ctx, workshop.GetInput{WorkshopID: testutils.TestWorkshopID})
	s.Require().NoError(err)
	s.Equal(int32(0), got.Workshop.Durability)
}

func (s *RedisRepositoryTestSuite) TestConditionalDecrement_ExhaustedIsNoOp() {
	ws := s.forge()
	ws.Durability = 0
	_, err := s.repo.Put(s.ctx, workshop.PutInput{Workshop: ws})
	s.Require().NoError(err)

	out, err := s.repo.ConditionalDecrement(s.ctx, workshop.ConditionalDecrementInput{
		WorkshopID: testutils.TestWorkshopID,
		Cost:       5,
	})
	s.Require().NoError(err)
	s.Equal(int32(0), out.DurabilityBefore)
	s.Equal(int32(0), out.DurabilityAfter)
	s.True(out.NeedsRepair)
}

func (s *RedisRepositoryTestSuite) TestConditionalDecrement_MissingWorkshop() {
	_, err := s.repo.ConditionalDecrement(s.ctx, workshop.ConditionalDecrementInput{
		WorkshopID: "forge_missing",
		Cost:       5,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func TestInMemoryClampAtZero(t *testing.T) {
	repo := workshop.NewInMemory()
	ctx := context.Background()

	_, err := repo.Put(ctx, workshop.PutInput{Workshop: &crafting.Workshop{
		ID:            "forge_local",
		OwnerID:       "char_owner",
		Durability:    12,
		MaxDurability: 50,
	}})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		out, err := repo.ConditionalDecrement(ctx, workshop.ConditionalDecrementInput{
			WorkshopID: "forge_local",
			Cost:       5,
		})
		if err != nil {
			t.Fatal(err)
		}
		if out.DurabilityAfter < 0 {
			t.Fatalf("durability went negative: %d", out.DurabilityAfter)
		}
	}

	got, err := repo.Get(ctx, workshop.GetInput{WorkshopID: "forge_local"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Workshop.Durability != 0 {
		t.Fatalf("expected durability 0, got %d", got.Workshop.Durability)
	}
	if !got.Workshop.NeedsRepair() {
		t.Fatal("expected workshop to need repair")
	}
}
