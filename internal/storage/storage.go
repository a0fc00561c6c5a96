package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Meal is one logged meal, either entered by hand or produced by the photo
// analysis pipeline.
type Meal struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	MealType    string // "breakfast", "lunch", "dinner", "snack"
	Date        string // YYYY-MM-DD
	Calories    int
	Protein     float64
	Carbs       float64
	Fat         float64
	Completed   bool
	Source      string // "manual" or "photo"
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealsStorage persists logged meals.
type MealsStorage interface {
	CreateMeal(ctx context.Context, meal *Meal) error
	GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (*Meal, error)
	ListMealsByDate(ctx context.Context, ownerUserID, date string) ([]Meal, error)
	UpdateMeal(ctx context.Context, meal *Meal) error
	DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// CountMealsByDate returns how many meals the user logged on a date.
	// Used to enforce per-plan daily meal limits.
	CountMealsByDate(ctx context.Context, ownerUserID, date string) (int, error)
}

// Habit is a recurring daily habit worth points when completed.
type Habit struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Icon        string
	Points      int // points granted per completion
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HabitCompletion marks a habit done on a given date.
type HabitCompletion struct {
	HabitID     uuid.UUID
	OwnerUserID string
	Date        string // YYYY-MM-DD
	CreatedAt   time.Time
}

// HabitsStorage persists habits and their per-day completions.
type HabitsStorage interface {
	CreateHabit(ctx context.Context, habit *Habit) error
	GetHabit(ctx context.Context, ownerUserID string, id uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context, ownerUserID string) ([]Habit, error)
	UpdateHabit(ctx context.Context, habit *Habit) error
	DeleteHabit(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// ToggleCompletion flips the completion state of a habit on a date and
	// reports the resulting state.
	ToggleCompletion(ctx context.Context, ownerUserID string, habitID uuid.UUID, date string) (bool, error)
	ListCompletions(ctx context.Context, ownerUserID, date string) ([]HabitCompletion, error)

	// PointsTotal returns the accumulated points across all completions.
	PointsTotal(ctx context.Context, ownerUserID string) (int, error)
}

// WorkoutSession is one finished workout with its estimated calorie burn.
type WorkoutSession struct {
	ID              uuid.UUID
	OwnerUserID     string
	Activity        string
	Intensity       string // "light", "moderate", "intense"
	DurationMinutes int
	WeightKg        float64
	CaloriesBurned  int
	Date            string // YYYY-MM-DD
	CreatedAt       time.Time
}

// WorkoutsStorage persists workout sessions.
type WorkoutsStorage interface {
	CreateSession(ctx context.Context, session *WorkoutSession) error
	GetSession(ctx context.Context, ownerUserID string, id uuid.UUID) (*WorkoutSession, error)
	ListSessions(ctx context.Context, ownerUserID, from, to string) ([]WorkoutSession, error)
	DeleteSession(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// CountSessionsInRange returns how many sessions fall in [from, to].
	// Used to enforce per-plan weekly workout limits.
	CountSessionsInRange(ctx context.Context, ownerUserID, from, to string) (int, error)
}

// Subscription is the user's current plan.
type Subscription struct {
	ID          uuid.UUID
	OwnerUserID string
	Plan        string // "free", "premium", "pro"
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// SubscriptionStorage persists plan membership and photo-analysis usage.
type SubscriptionStorage interface {
	GetSubscription(ctx context.Context, ownerUserID string) (*Subscription, error)
	UpsertSubscription(ctx context.Context, sub *Subscription) error

	// RecordAnalysis counts one photo analysis against the month (YYYY-MM).
	RecordAnalysis(ctx context.Context, ownerUserID, month string) error
	CountAnalyses(ctx context.Context, ownerUserID, month string) (int, error)
}

// ProgressPhoto is a body progress photo stored in the blob store (or
// inline in memory mode).
type ProgressPhoto struct {
	ID          uuid.UUID
	OwnerUserID string
	ObjectKey   *string // S3 object key (NULL for memory mode)
	ContentType string
	SizeBytes   int64
	Note        string
	CreatedAt   time.Time
	Data        []byte  // only used in memory mode (not stored in DB)
}

// PhotosStorage persists progress photo metadata, plus the bytes in
// memory mode.
type PhotosStorage interface {
	CreatePhoto(ctx context.Context, photo *ProgressPhoto) error
	GetPhoto(ctx context.Context, ownerUserID string, id uuid.UUID) (*ProgressPhoto, error)
	ListPhotos(ctx context.Context, ownerUserID string, limit, offset int) ([]ProgressPhoto, error)
	DeletePhoto(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// ReportMeta describes one generated nutrition report.
type ReportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	Format      string  // "pdf" or "csv"
	FromDate    string  // YYYY-MM-DD
	ToDate      string  // YYYY-MM-DD
	ObjectKey   *string // S3 object key (NULL for memory mode)
	SizeBytes   int64
	Status      string  // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	Data        []byte  // only used in memory mode (not stored in DB)
}

// ReportsStorage persists report metadata, plus the bytes in memory mode.
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// Storage bundles every per-concern storage behind one handle so wiring
// code can treat memory and postgres the same way.
type Storage interface {
	MealsStorage
	HabitsStorage
	WorkoutsStorage
	SubscriptionStorage
	PhotosStorage
	ReportsStorage

	// Close releases the underlying connection pool (no-op for memory).
	Close() error
}
