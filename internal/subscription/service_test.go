package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/mrocha88/fitapp/internal/storage/memory"
)

type fixedPoints struct {
	total int
}

func (p fixedPoints) Points(ctx context.Context, ownerUserID string) (int, error) {
	return p.total, nil
}

func TestDiscount(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 0},
		{1999, 0},
		{2000, 5},
		{4000, 10},
		{9999, 20},
		{10000, 25},
		{50000, 25}, // capped
	}

	for _, tc := range cases {
		if got := Discount(tc.points); got != tc.want {
			t.Fatalf("Discount(%d) = %d, want %d", tc.points, got, tc.want)
		}
	}
}

func TestPriceAfterDiscount(t *testing.T) {
	if got := PriceAfterDiscount(2990, 10); got != 2691 {
		t.Fatalf("expected 2691, got %d", got)
	}
	if got := PriceAfterDiscount(0, 25); got != 0 {
		t.Fatalf("free plan should stay free, got %d", got)
	}
}

func TestDefaultPlanIsFree(t *testing.T) {
	service := NewService(memory.New(), fixedPoints{})

	status, err := service.Status(context.Background(), "userA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Plan.Name != PlanFree {
		t.Fatalf("expected free plan, got %q", status.Plan.Name)
	}
	if status.Plan.MealsPerDay != 3 || status.Plan.WorkoutsPerWeek != 2 || status.Plan.AnalysesPerMonth != 5 {
		t.Fatalf("unexpected free plan limits: %+v", status.Plan)
	}
}

func TestChangePlan(t *testing.T) {
	service := NewService(memory.New(), fixedPoints{})

	status, err := service.ChangePlan(context.Background(), "userA", PlanPremium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Plan.Name != PlanPremium {
		t.Fatalf("expected premium plan, got %q", status.Plan.Name)
	}
	if status.Plan.PriceCents != 2990 {
		t.Fatalf("expected 2990 cents, got %d", status.Plan.PriceCents)
	}

	if _, err := service.ChangePlan(context.Background(), "userA", "platinum"); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestPlanLimits(t *testing.T) {
	service := NewService(memory.New(), fixedPoints{})
	ctx := context.Background()

	limit, err := service.MealsPerDayLimit(ctx, "userA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 3 {
		t.Fatalf("free plan: expected 3 meals/day, got %d", limit)
	}

	if _, err := service.ChangePlan(ctx, "userA", PlanPremium); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	limit, err = service.MealsPerDayLimit(ctx, "userA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 0 {
		t.Fatalf("premium plan: expected unlimited meals, got %d", limit)
	}

	limit, err = service.WorkoutsPerWeekLimit(ctx, "userB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 2 {
		t.Fatalf("free plan: expected 2 workouts/week, got %d", limit)
	}
}

func TestAnalysisQuota(t *testing.T) {
	service := NewService(memory.New(), fixedPoints{})
	ctx := context.Background()

	// The free plan allows 5 analyses per month.
	for i := 0; i < 5; i++ {
		if err := service.CheckAnalysisQuota(ctx, "userA"); err != nil {
			t.Fatalf("analysis %d: unexpected error: %v", i+1, err)
		}
		if err := service.RecordAnalysis(ctx, "userA"); err != nil {
			t.Fatalf("analysis %d: unexpected error: %v", i+1, err)
		}
	}

	if err := service.CheckAnalysisQuota(ctx, "userA"); !errors.Is(err, ErrAnalysisQuotaReached) {
		t.Fatalf("expected ErrAnalysisQuotaReached, got %v", err)
	}

	// Upgrading to pro lifts the limit.
	if _, err := service.ChangePlan(ctx, "userA", PlanPro); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.CheckAnalysisQuota(ctx, "userA"); err != nil {
		t.Fatalf("pro plan: unexpected error: %v", err)
	}
}

func TestStatusAppliesLoyaltyDiscount(t *testing.T) {
	service := NewService(memory.New(), fixedPoints{total: 4000})
	ctx := context.Background()

	if _, err := service.ChangePlan(ctx, "userA", PlanPremium); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := service.Status(ctx, "userA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Points != 4000 {
		t.Fatalf("expected 4000 points, got %d", status.Points)
	}
	if status.DiscountPercent != 10 {
		t.Fatalf("expected 10%% discount, got %d", status.DiscountPercent)
	}
	if status.PriceCentsAfterDiscount != 2691 {
		t.Fatalf("expected 2691 cents after discount, got %d", status.PriceCentsAfterDiscount)
	}
}
