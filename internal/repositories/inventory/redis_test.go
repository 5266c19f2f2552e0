package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/forgeline/craft-api/internal/repositories/inventory"
	"github.com/forgeline/craft-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    inventory.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := inventory.NewRedisRepository(&inventory.RedisConfig{Client: client})
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

func (s *RedisRepositoryTestSuite) TestGetBalance_DefaultsToZero() {
	out, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
	})
	s.Require().NoError(err)
	s.Equal(int64(0), out.Quantity)
}

func (s *RedisRepositoryTestSuite) TestIncrement() {
	out, err := s.repo.Increment(s.ctx, inventory.IncrementInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
		Quantity:    10,
	})
	s.Require().NoError(err)
	s.Equal(int64(10), out.NewQuantity)

	out, err = s.repo.Increment(s.ctx, inventory.IncrementInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
		Quantity:    5,
	})
	s.Require().NoError(err)
	s.Equal(int64(15), out.NewQuantity)
}

func (s *RedisRepositoryTestSuite) TestConditionalDecrement() {
	_, err := s.repo.Increment(s.ctx, inventory.IncrementInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
		Quantity:    10,
	})
	s.Require().NoError(err)

	s.Run("sufficient balance deducts", func() {
		out, err := s.repo.ConditionalDecrement(s.ctx, inventory.ConditionalDecrementInput{
			CharacterID: "char_1",
			ResourceID:  testutils.ResourceIronOre,
			Quantity:    4,
		})
		s.Require().NoError(err)
		s.True(out.Applied)
		s.Equal(int64(6), out.NewQuantity)
	})

	s.Run("short balance leaves quantity untouched", func() {
		out, err := s.repo.ConditionalDecrement(s.ctx, inventory.ConditionalDecrementInput{
			CharacterID: "char_1",
			ResourceID:  testutils.ResourceIronOre,
			Quantity:    100,
		})
		s.Require().NoError(err)
		s.False(out.Applied)
		s.Equal(int64(6), out.NewQuantity)
	})
}

func (s *RedisRepositoryTestSuite) TestDecrementBatch_AllOrNothing() {
	for _, seed := range []inventory.IncrementInput{
		{CharacterID: "char_1", ResourceID: testutils.ResourceIronOre, Quantity: 10},
		{CharacterID: "char_1", ResourceID: testutils.ResourceCoal, Quantity: 1},
	} {
		_, err := s.repo.Increment(s.ctx, seed)
		s.Require().NoError(err)
	}

	s.Run("one short item rejects the whole batch", func() {
		out, err := s.repo.DecrementBatch(s.ctx, inventory.DecrementBatchInput{
			CharacterID: "char_1",
			Items: []inventory.BatchItem{
				{ResourceID: testutils.ResourceIronOre, Quantity: 4},
				{ResourceID: testutils.ResourceCoal, Quantity: 2},
			},
		})
		s.Require().NoError(err)
		s.False(out.Applied)

		ore, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
			CharacterID: "char_1", ResourceID: testutils.ResourceIronOre,
		})
		s.Require().NoError(err)
		s.Equal(int64(10), ore.Quantity, "nothing deducted on a rejected batch")
	})

	s.Run("covered batch deducts every item", func() {
		out, err := s.repo.DecrementBatch(s.ctx, inventory.DecrementBatchInput{
			CharacterID: "char_1",
			Items: []inventory.BatchItem{
				{ResourceID: testutils.ResourceIronOre, Quantity: 4},
				{ResourceID: testutils.ResourceCoal, Quantity: 1},
			},
		})
		s.Require().NoError(err)
		s.True(out.Applied)

		ore, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
			CharacterID: "char_1", ResourceID: testutils.ResourceIronOre,
		})
		s.Require().NoError(err)
		s.Equal(int64(6), ore.Quantity)

		coal, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
			CharacterID: "char_1", ResourceID: testutils.ResourceCoal,
		})
		s.Require().NoError(err)
		s.Equal(int64(0), coal.Quantity)
	})
}

func (s *RedisRepositoryTestSuite) TestDecrementBatch_RepeatedResourceCombines() {
	_, err := s.repo.Increment(s.ctx, inventory.IncrementInput{
		CharacterID: "char_1", ResourceID: testutils.ResourceIronOre, Quantity: 4,
	})
	s.Require().NoError(err)

	s.Run("combined quantity over balance rejects", func() {
		out, err := s.repo.DecrementBatch(s.ctx, inventory.DecrementBatchInput{
			CharacterID: "char_1",
			Items: []inventory.BatchItem{
				{ResourceID: testutils.ResourceIronOre, Quantity: 3},
				{ResourceID: testutils.ResourceIronOre, Quantity: 4},
			},
		})
		s.Require().NoError(err)
		s.False(out.Applied, "3+4 exceeds the balance of 4")

		ore, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
			CharacterID: "char_1", ResourceID: testutils.ResourceIronOre,
		})
		s.Require().NoError(err)
		s.Equal(int64(4), ore.Quantity)
	})

	s.Run("combined quantity within balance deducts once", func() {
		out, err := s.repo.DecrementBatch(s.ctx, inventory.DecrementBatchInput{
			CharacterID: "char_1",
			Items: []inventory.BatchItem{
				{ResourceID: testutils.ResourceIronOre, Quantity: 3},
				{ResourceID: testutils.ResourceIronOre, Quantity: 1},
			},
		})
		s.Require().NoError(err)
		s.True(out.Applied)

		ore, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{
			CharacterID: "char_1", ResourceID: testutils.ResourceIronOre,
		})
		s.Require().NoError(err)
		s.Equal(int64(0), ore.Quantity)
	})
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	_, err := s.repo.GetBalance(s.ctx, inventory.GetBalanceInput{ResourceID: "x"})
	s.Error(err)

	_, err = s.repo.Increment(s.ctx, inventory.IncrementInput{
		CharacterID: "char_1", ResourceID: "x", Quantity: 0,
	})
	s.Error(err)

	_, err = s.repo.DecrementBatch(s.ctx, inventory.DecrementBatchInput{CharacterID: "char_1"})
	s.Error(err)
}

// TestInMemoryBatchRepeatedResource mirrors the combined-quantity check
// for the in-memory flavor: a batch naming one resource twice must be
// judged on the sum, and a short sum must never drive the balance
// negative.
func TestInMemoryBatchRepeatedResource(t *testing.T) {
	repo := inventory.NewInMemory()
	ctx := context.Background()

	_, err := repo.Increment(ctx, inventory.IncrementInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
		Quantity:    4,
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := repo.DecrementBatch(ctx, inventory.DecrementBatchInput{
		CharacterID: "char_1",
		Items: []inventory.BatchItem{
			{ResourceID: testutils.ResourceIronOre, Quantity: 3},
			{ResourceID: testutils.ResourceIronOre, Quantity: 4},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Applied {
		t.Fatal("batch totaling 7 must not apply against a balance of 4")
	}

	bal, err := repo.GetBalance(ctx, inventory.GetBalanceInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
	})
	if err != nil {
		t.Fatal(err)
	}
	if bal.Quantity != 4 {
		t.Fatalf("expected untouched balance 4, got %d", bal.Quantity)
	}
}

// TestInMemoryConcurrentDecrements exercises the check-then-act hazard:
// many concurrent decrements against one balance must never overdraw.
func TestInMemoryConcurrentDecrements(t *testing.T) {
	repo := inventory.NewInMemory()
	ctx := context.Background()

	_, err := repo.Increment(ctx, inventory.IncrementInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
		Quantity:    10,
	})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	applied := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := repo.ConditionalDecrement(ctx, inventory.ConditionalDecrementInput{
				CharacterID: "char_1",
				ResourceID:  testutils.ResourceIronOre,
				Quantity:    1,
			})
			if err != nil {
				t.Error(err)
				return
			}
			applied <- out.Applied
		}()
	}
	wg.Wait()
	close(applied)

	succeeded := 0
	for ok := range applied {
		if ok {
			succeeded++
		}
	}
	if succeeded != 10 {
		t.Fatalf("expected exactly 10 successful decrements, got %d", succeeded)
	}

	out, err := repo.GetBalance(ctx, inventory.GetBalanceInput{
		CharacterID: "char_1",
		ResourceID:  testutils.ResourceIronOre,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Quantity != 0 {
		t.Fatalf("expected zero balance, got %d", out.Quantity)
	}
}
