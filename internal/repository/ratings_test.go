package repository

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/o-kravets/plateful/internal/domain"
)

func TestRatingsRepository_SubmitRecomputesAggregate(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	recipe := mustCreateRecipe(t, env, "Rated Recipe")

	got, err := env.repository.Ratings.Submit(env.ctx, recipe.ID, "user-a", 5)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if got.Rating != 5.0 || got.RatingCount != 1 {
		t.Fatalf("after first submit = {%v, %d}, want {5.0, 1}", got.Rating, got.RatingCount)
	}

	got, err = env.repository.Ratings.Submit(env.ctx, recipe.ID, "user-b", 3)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if got.Rating != 4.0 || got.RatingCount != 2 {
		t.Fatalf("after second submit = {%v, %d}, want {4.0, 2}", got.Rating, got.RatingCount)
	}

	// A resubmission replaces the user's prior value instead of adding a row.
	got, err = env.repository.Ratings.Submit(env.ctx, recipe.ID, "user-a", 1)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got.Rating != 2.0 || got.RatingCount != 2 {
		t.Fatalf("after resubmit = {%v, %d}, want {2.0, 2}", got.Rating, got.RatingCount)
	}

	stored, err := env.repository.Ratings.Get(env.ctx, recipe.ID, "user-a")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if stored.Value != 1 {
		t.Fatalf("stored value = %d, want 1", stored.Value)
	}

	if _, err := env.repository.Ratings.Get(env.ctx, recipe.ID, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing rating, got %v", err)
	}
}

func TestRatingsRepository_SubmitInvalidValueIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	recipe := mustCreateRecipe(t, env, "Guarded Recipe")

	if _, err := env.repository.Ratings.Submit(env.ctx, recipe.ID, "user-a", 4); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, value := range []int{0, 6, -1, 100} {
		got, err := env.repository.Ratings.Submit(env.ctx, recipe.ID, "user-a", value)
		if err != nil {
			t.Fatalf("submit %d: %v", value, err)
		}
		if got.Rating != 4.0 || got.RatingCount != 1 {
			t.Fatalf("value %d changed aggregate to {%v, %d}", value, got.Rating, got.RatingCount)
		}
	}

	stored, err := env.repository.Ratings.Get(env.ctx, recipe.ID, "user-a")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if stored.Value != 4 {
		t.Fatalf("stored value = %d, want 4", stored.Value)
	}
}

func TestRatingsRepository_SubmitUnpublished(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	draft := mustCreateRecipe(t, env, "Draft Recipe", withStatus(domain.StatusDraft))

	if _, err := env.repository.Ratings.Submit(env.ctx, draft.ID, "user-a", 4); err != ErrNotFound {
		t.Fatalf("rating a draft should be ErrNotFound, got %v", err)
	}
	if _, err := env.repository.Ratings.Submit(env.ctx, "missing", "user-a", 4); err != ErrNotFound {
		t.Fatalf("rating a missing recipe should be ErrNotFound, got %v", err)
	}
	// The invalid-value path still reports a missing recipe.
	if _, err := env.repository.Ratings.Submit(env.ctx, draft.ID, "user-a", 99); err != ErrNotFound {
		t.Fatalf("invalid value on a draft should be ErrNotFound, got %v", err)
	}
}

func TestRatingsRepository_AggregateEmpty(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	recipe := mustCreateRecipe(t, env, "Unrated Recipe")

	agg, err := env.repository.Ratings.Aggregate(env.ctx, recipe.ID)
	if err != nil {
		t.Fatalf("aggregate without ratings: %v", err)
	}
	if agg.Count != 0 || agg.Average != 0 {
		t.Fatalf("agg = {%v, %d}, want {0, 0}", agg.Average, agg.Count)
	}
}

func TestRatingsRepository_ConcurrentSubmits(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	recipe := mustCreateRecipe(t, env, "Concurrent Recipe")
	const workers = 10

	var wg sync.WaitGroup
	sum := 0
	for i := 0; i < workers; i++ {
		value := domain.RatingMin + i%(domain.RatingMax-domain.RatingMin+1)
		sum += value
		user := fmt.Sprintf("user-%d", i)
		wg.Add(1)
		go func(user string, value int) {
			defer wg.Done()
			if _, err := env.repository.Ratings.Submit(env.ctx, recipe.ID, user, value); err != nil {
				t.Errorf("submit failed for %s: %v", user, err)
			}
		}(user, value)
	}
	wg.Wait()

	agg, err := env.repository.Ratings.Aggregate(env.ctx, recipe.ID)
	if err != nil {
		t.Fatalf("aggregate after concurrent submits: %v", err)
	}
	if agg.Count != workers {
		t.Fatalf("agg.Count = %d, want %d", agg.Count, workers)
	}
	want := float64(sum) / float64(workers)
	if math.Abs(agg.Average-want) > 1e-9 {
		t.Fatalf("agg.Average = %v, want %v", agg.Average, want)
	}

	// The denormalized fields must match a fresh recompute from the rows.
	fromEntries, err := env.repository.Ratings.AggregateFromEntries(env.ctx, recipe.ID)
	if err != nil {
		t.Fatalf("aggregate from entries: %v", err)
	}
	if fromEntries.Count != agg.Count || math.Abs(fromEntries.Average-agg.Average) > 1e-9 {
		t.Fatalf("denormalized {%v, %d} drifted from rows {%v, %d}",
			agg.Average, agg.Count, fromEntries.Average, fromEntries.Count)
	}
}

func TestRatingsRepository_IndependentPerRecipe(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	first := mustCreateRecipe(t, env, "First Recipe")
	second := mustCreateRecipe(t, env, "Second Recipe")

	if _, err := env.repository.Ratings.Submit(env.ctx, first.ID, "user-a", 5); err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if _, err := env.repository.Ratings.Submit(env.ctx, second.ID, "user-a", 1); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	aggFirst, err := env.repository.Ratings.Aggregate(env.ctx, first.ID)
	if err != nil {
		t.Fatalf("aggregate first: %v", err)
	}
	aggSecond, err := env.repository.Ratings.Aggregate(env.ctx, second.ID)
	if err != nil {
		t.Fatalf("aggregate second: %v", err)
	}
	if aggFirst.Average != 5.0 || aggFirst.Count != 1 {
		t.Fatalf("first agg = {%v, %d}, want {5.0, 1}", aggFirst.Average, aggFirst.Count)
	}
	if aggSecond.Average != 1.0 || aggSecond.Count != 1 {
		t.Fatalf("second agg = {%v, %d}, want {1.0, 1}", aggSecond.Average, aggSecond.Count)
	}
}

func BenchmarkRatingsRepositorySubmit(b *testing.B) {
	env := newTestEnv(b)
	defer env.cleanup()

	recipe := mustCreateRecipe(b, env, "Bench Recipe")
	for i := 0; i < b.N; i++ {
		user := fmt.Sprintf("bench-%d", i)
		if _, err := env.repository.Ratings.Submit(env.ctx, recipe.ID, user, 4); err != nil {
			b.Fatalf("submit: %v", err)
		}
	}
}
