package workouts

import (
	"context"
	"errors"
	"testing"

	"github.com/mrocha88/fitapp/internal/storage/memory"
)

type weeklyLimiter struct {
	limit int
}

func (l weeklyLimiter) WorkoutsPerWeekLimit(ctx context.Context, ownerUserID string) (int, error) {
	return l.limit, nil
}

func TestCaloriesBurnedFormula(t *testing.T) {
	cases := []struct {
		intensity string
		weightKg  float64
		duration  int
		want      int
	}{
		// ((MET * 3.5 * weight) / 200) * minutes, rounded
		{"light", 70, 30, 129},     // ((3.5*3.5*70)/200)*30 = 128.625
		{"moderate", 70, 30, 202},  // ((5.5*3.5*70)/200)*30 = 202.125
		{"intense", 70, 30, 294},   // ((8.0*3.5*70)/200)*30 = 294
		{"intense", 82.5, 45, 520}, // ((8.0*3.5*82.5)/200)*45 = 519.75
		{"unknown", 70, 30, 0},
	}

	for _, tc := range cases {
		got := CaloriesBurned(tc.intensity, tc.weightKg, tc.duration)
		if got != tc.want {
			t.Fatalf("CaloriesBurned(%q, %v, %d) = %d, want %d", tc.intensity, tc.weightKg, tc.duration, got, tc.want)
		}
	}
}

func TestCreateSessionComputesCalories(t *testing.T) {
	service := NewService(memory.New(), weeklyLimiter{limit: 0})

	session, err := service.Create(context.Background(), "userA", CreateSessionRequest{
		Activity:        "Running",
		Intensity:       "moderate",
		DurationMinutes: 30,
		WeightKg:        70,
		Date:            "2026-08-29",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.CaloriesBurned != 202 {
		t.Fatalf("expected 202 kcal, got %d", session.CaloriesBurned)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	service := NewService(memory.New(), weeklyLimiter{limit: 0})

	cases := []CreateSessionRequest{
		{Intensity: "light", DurationMinutes: 30, WeightKg: 70},                                  // missing activity
		{Activity: "Yoga", Intensity: "extreme", DurationMinutes: 30, WeightKg: 70},              // bad intensity
		{Activity: "Yoga", Intensity: "light", DurationMinutes: 0, WeightKg: 70},                 // zero duration
		{Activity: "Yoga", Intensity: "light", DurationMinutes: 30, WeightKg: 0},                 // zero weight
		{Activity: "Yoga", Intensity: "light", DurationMinutes: 30, WeightKg: 70, Date: "today"}, // bad date
	}

	for _, req := range cases {
		if _, err := service.Create(context.Background(), "userA", req); err == nil {
			t.Fatalf("request %+v: expected validation error", req)
		}
	}
}

func TestWeeklyWorkoutLimit(t *testing.T) {
	service := NewService(memory.New(), weeklyLimiter{limit: 2})

	// 2026-08-24 (Mon) through 2026-08-30 (Sun) is one week.
	for _, date := range []string{"2026-08-24", "2026-08-26"} {
		_, err := service.Create(context.Background(), "userA", CreateSessionRequest{
			Activity:        "Running",
			Intensity:       "light",
			DurationMinutes: 20,
			WeightKg:        70,
			Date:            date,
		})
		if err != nil {
			t.Fatalf("date %s: unexpected error: %v", date, err)
		}
	}

	_, err := service.Create(context.Background(), "userA", CreateSessionRequest{
		Activity:        "Running",
		Intensity:       "light",
		DurationMinutes: 20,
		WeightKg:        70,
		Date:            "2026-08-29",
	})
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached in the same week, got %v", err)
	}

	// A new week starts the counter over.
	_, err = service.Create(context.Background(), "userA", CreateSessionRequest{
		Activity:        "Running",
		Intensity:       "light",
		DurationMinutes: 20,
		WeightKg:        70,
		Date:            "2026-08-31",
	})
	if err != nil {
		t.Fatalf("expected next week to succeed, got %v", err)
	}
}

func TestListSessionsTotals(t *testing.T) {
	service := NewService(memory.New(), weeklyLimiter{limit: 0})

	for _, intensity := range []string{"light", "intense"} {
		_, err := service.Create(context.Background(), "userA", CreateSessionRequest{
			Activity:        "Cycling",
			Intensity:       intensity,
			DurationMinutes: 30,
			WeightKg:        70,
			Date:            "2026-08-29",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	resp, err := service.List(context.Background(), "userA", "2026-08-29", "2026-08-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(resp.Sessions))
	}
	if resp.TotalCaloriesBurned != 129+294 {
		t.Fatalf("expected total 423 kcal, got %d", resp.TotalCaloriesBurned)
	}
}

func TestWeekBounds(t *testing.T) {
	// 2026-08-29 is a Saturday.
	monday, sunday := weekBounds("2026-08-29")
	if monday != "2026-08-24" || sunday != "2026-08-30" {
		t.Fatalf("expected [2026-08-24, 2026-08-30], got [%s, %s]", monday, sunday)
	}

	// Sunday belongs to the same week.
	monday, sunday = weekBounds("2026-08-30")
	if monday != "2026-08-24" || sunday != "2026-08-30" {
		t.Fatalf("sunday: expected [2026-08-24, 2026-08-30], got [%s, %s]", monday, sunday)
	}
}
