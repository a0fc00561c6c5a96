package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrUnknownPlan          = errors.New("unknown_plan")
	ErrUnknownFeature       = errors.New("unknown_feature")
	ErrAnalysisQuotaReached = errors.New("analysis_quota_reached")
)

// PointsProvider reports the user's accumulated habit points. The habits
// service implements it.
type PointsProvider interface {
	Points(ctx context.Context, ownerUserID string) (int, error)
}

// Service resolves plans, enforces usage quotas and computes loyalty
// discounts.
type Service struct {
	storage storage.SubscriptionStorage
	points  PointsProvider
	now     func() time.Time
}

// NewService creates a new subscription service.
func NewService(storage storage.SubscriptionStorage, points PointsProvider) *Service {
	return &Service{storage: storage, points: points, now: time.Now}
}

// Plans returns the plan catalog, cheapest first.
func Plans() []PlanSpec {
	return []PlanSpec{plans[PlanFree], plans[PlanPremium], plans[PlanPro]}
}

// PlanFor resolves the user's current plan. Users without a stored
// subscription are on the free plan.
func (s *Service) PlanFor(ctx context.Context, ownerUserID string) (PlanSpec, error) {
	sub, err := s.storage.GetSubscription(ctx, ownerUserID)
	if err != nil {
		return PlanSpec{}, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return plans[PlanFree], nil
	}

	spec, ok := plans[sub.Plan]
	if !ok {
		return plans[PlanFree], nil
	}
	return spec, nil
}

// ChangePlan switches the user to another plan and returns the new status.
func (s *Service) ChangePlan(ctx context.Context, ownerUserID, plan string) (StatusResponse, error) {
	if _, ok := plans[plan]; !ok {
		return StatusResponse{}, ErrUnknownPlan
	}

	sub := storage.Subscription{
		OwnerUserID: ownerUserID,
		Plan:        plan,
		StartedAt:   s.now(),
	}
	if err := s.storage.UpsertSubscription(ctx, &sub); err != nil {
		return StatusResponse{}, fmt.Errorf("failed to change plan: %w", err)
	}

	return s.Status(ctx, ownerUserID)
}

// Status returns the user's plan, monthly analysis usage and the loyalty
// discount their habit points earn.
func (s *Service) Status(ctx context.Context, ownerUserID string) (StatusResponse, error) {
	sub, err := s.storage.GetSubscription(ctx, ownerUserID)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("failed to load subscription: %w", err)
	}

	spec := plans[PlanFree]
	var startedAt time.Time
	if sub != nil {
		if known, ok := plans[sub.Plan]; ok {
			spec = known
		}
		startedAt = sub.StartedAt
	}

	used, err := s.storage.CountAnalyses(ctx, ownerUserID, monthKey(s.now()))
	if err != nil {
		return StatusResponse{}, fmt.Errorf("failed to count analyses: %w", err)
	}

	points := 0
	if s.points != nil {
		points, err = s.points.Points(ctx, ownerUserID)
		if err != nil {
			return StatusResponse{}, fmt.Errorf("failed to load points: %w", err)
		}
	}

	discount := Discount(points)
	return StatusResponse{
		Plan:                    spec,
		StartedAt:               startedAt,
		AnalysesUsedThisMonth:   used,
		Points:                  points,
		DiscountPercent:         discount,
		PriceCentsAfterDiscount: PriceAfterDiscount(spec.PriceCents, discount),
	}, nil
}

// Discount converts habit points into a loyalty discount percentage.
// Every 2000 points earn 5%, capped at 25%.
func Discount(points int) int {
	discount := 5 * (points / 2000)
	if discount > 25 {
		return 25
	}
	return discount
}

// PriceAfterDiscount applies a percentage discount to a price in cents.
func PriceAfterDiscount(priceCents, discountPercent int) int {
	return priceCents * (100 - discountPercent) / 100
}

// MealsPerDayLimit reports the daily meal limit of the user's plan.
// Zero means unlimited.
func (s *Service) MealsPerDayLimit(ctx context.Context, ownerUserID string) (int, error) {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return 0, err
	}
	return spec.MealsPerDay, nil
}

// WorkoutsPerWeekLimit reports the weekly workout limit of the user's plan.
// Zero means unlimited.
func (s *Service) WorkoutsPerWeekLimit(ctx context.Context, ownerUserID string) (int, error) {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return 0, err
	}
	return spec.WorkoutsPerWeek, nil
}

// MicronutrientsAllowed reports whether the user's plan includes
// micronutrient breakdowns in meal analyses.
func (s *Service) MicronutrientsAllowed(ctx context.Context, ownerUserID string) (bool, error) {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return false, err
	}
	return spec.Micronutrients, nil
}

// AnalysisAllowed reports whether the user has photo analyses left this
// month.
func (s *Service) AnalysisAllowed(ctx context.Context, ownerUserID string) (bool, error) {
	err := s.CheckAnalysisQuota(ctx, ownerUserID)
	if errors.Is(err, ErrAnalysisQuotaReached) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PDFReportsAllowed reports whether the user's plan includes PDF reports.
func (s *Service) PDFReportsAllowed(ctx context.Context, ownerUserID string) (bool, error) {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return false, err
	}
	return spec.PDFReports, nil
}

// LimitFor answers a limit query for one feature. When the caller does not
// supply the current usage, analyses usage comes from the monthly counter
// and the other features report usage 0.
func (s *Service) LimitFor(ctx context.Context, ownerUserID, feature string, usage int, usageKnown bool) (LimitResponse, error) {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return LimitResponse{}, err
	}

	var limit int
	switch feature {
	case LimitMeals:
		limit = spec.MealsPerDay
	case LimitWorkouts:
		limit = spec.WorkoutsPerWeek
	case LimitAnalyses:
		limit = spec.AnalysesPerMonth
	default:
		return LimitResponse{}, ErrUnknownFeature
	}

	used := usage
	if !usageKnown && feature == LimitAnalyses {
		used, err = s.storage.CountAnalyses(ctx, ownerUserID, monthKey(s.now()))
		if err != nil {
			return LimitResponse{}, fmt.Errorf("failed to count analyses: %w", err)
		}
	}

	resp := LimitResponse{
		Feature: feature,
		Limit:   limit,
		Used:    used,
	}
	if limit <= 0 {
		resp.Unlimited = true
		resp.Remaining = -1
		resp.Allowed = true
		return resp, nil
	}

	resp.Remaining = limit - used
	if resp.Remaining < 0 {
		resp.Remaining = 0
	}
	resp.Allowed = used < limit
	return resp, nil
}

// CheckAnalysisQuota reports ErrAnalysisQuotaReached when the user has no
// photo analyses left this month.
func (s *Service) CheckAnalysisQuota(ctx context.Context, ownerUserID string) error {
	spec, err := s.PlanFor(ctx, ownerUserID)
	if err != nil {
		return err
	}
	if spec.AnalysesPerMonth <= 0 {
		return nil
	}

	used, err := s.storage.CountAnalyses(ctx, ownerUserID, monthKey(s.now()))
	if err != nil {
		return fmt.Errorf("failed to count analyses: %w", err)
	}
	if used >= spec.AnalysesPerMonth {
		return ErrAnalysisQuotaReached
	}
	return nil
}

// RecordAnalysis counts one photo analysis against the current month.
func (s *Service) RecordAnalysis(ctx context.Context, ownerUserID string) error {
	return s.storage.RecordAnalysis(ctx, ownerUserID, monthKey(s.now()))
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
