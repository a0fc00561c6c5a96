package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/mrocha88/fitapp/internal/storage"
)

// dayRow is one day of aggregated nutrition and training data.
type dayRow struct {
	Date           string
	Meals          int
	Calories       int
	Protein        float64
	Carbs          float64
	Fat            float64
	Workouts       int
	CaloriesBurned int
}

// Generator renders PDF and CSV reports from logged meals and workouts.
type Generator struct {
	mealsStorage    storage.MealsStorage
	workoutsStorage storage.WorkoutsStorage
}

// NewGenerator creates a new report generator.
func NewGenerator(mealsStorage storage.MealsStorage, workoutsStorage storage.WorkoutsStorage) *Generator {
	return &Generator{
		mealsStorage:    mealsStorage,
		workoutsStorage: workoutsStorage,
	}
}

// GenerateReport renders the report and returns its bytes.
func (g *Generator) GenerateReport(ctx context.Context, ownerUserID string, req CreateReportRequest) ([]byte, error) {
	rows, err := g.collectRows(ctx, ownerUserID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// collectRows aggregates one row per day in [from, to]. Only completed
// meals count toward the consumed totals.
func (g *Generator) collectRows(ctx context.Context, ownerUserID, from, to string) ([]dayRow, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}

	sessions, err := g.workoutsStorage.ListSessions(ctx, ownerUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workouts: %w", err)
	}

	workoutsByDate := make(map[string][]storage.WorkoutSession)
	for _, session := range sessions {
		workoutsByDate[session.Date] = append(workoutsByDate[session.Date], session)
	}

	var rows []dayRow
	for day := fromDate; !day.After(toDate); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		meals, err := g.mealsStorage.ListMealsByDate(ctx, ownerUserID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch meals: %w", err)
		}

		row := dayRow{Date: date}
		for _, meal := range meals {
			if !meal.Completed {
				continue
			}
			row.Meals++
			row.Calories += meal.Calories
			row.Protein += meal.Protein
			row.Carbs += meal.Carbs
			row.Fat += meal.Fat
		}
		for _, session := range workoutsByDate[date] {
			row.Workouts++
			row.CaloriesBurned += session.CaloriesBurned
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// generateCSV renders one row per day.
func (g *Generator) generateCSV(rows []dayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "meals", "calories", "protein_g", "carbs_g", "fat_g", "workouts", "calories_burned"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			strconv.Itoa(row.Meals),
			strconv.Itoa(row.Calories),
			fmt.Sprintf("%.2f", row.Protein),
			fmt.Sprintf("%.2f", row.Carbs),
			fmt.Sprintf("%.2f", row.Fat),
			strconv.Itoa(row.Workouts),
			strconv.Itoa(row.CaloriesBurned),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF renders a summary page plus a table of the most recent days.
func (g *Generator) generatePDF(req CreateReportRequest, rows []dayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Nutrition Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", req.From, req.To))
	pdf.Ln(12)

	summary := calculateSummary(rows)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days with meals logged: %d of %d", summary.DaysTracked, len(rows)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Meals completed: %d", summary.TotalMeals))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories per tracked day: %s", formatInt(summary.AvgCalories)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total protein: %.1f g", summary.TotalProtein))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total carbs: %.1f g", summary.TotalCarbs))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total fat: %.1f g", summary.TotalFat))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Workouts: %d", summary.TotalWorkouts))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total calories burned: %d", summary.TotalBurned))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Recent days")
	pdf.Ln(8)

	drawRecentDaysTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// summaryStats holds the totals shown at the top of the PDF.
type summaryStats struct {
	DaysTracked   int
	TotalMeals    int
	AvgCalories   *int
	TotalProtein  float64
	TotalCarbs    float64
	TotalFat      float64
	TotalWorkouts int
	TotalBurned   int
}

func calculateSummary(rows []dayRow) summaryStats {
	var stats summaryStats
	totalCalories := 0

	for _, row := range rows {
		if row.Meals > 0 {
			stats.DaysTracked++
			totalCalories += row.Calories
		}
		stats.TotalMeals += row.Meals
		stats.TotalProtein += row.Protein
		stats.TotalCarbs += row.Carbs
		stats.TotalFat += row.Fat
		stats.TotalWorkouts += row.Workouts
		stats.TotalBurned += row.CaloriesBurned
	}

	if stats.DaysTracked > 0 {
		avg := totalCalories / stats.DaysTracked
		stats.AvgCalories = &avg
	}

	return stats
}

func drawRecentDaysTable(pdf *gofpdf.Fpdf, rows []dayRow) {
	// Last 14 days only.
	if len(rows) > 14 {
		rows = rows[len(rows)-14:]
	}

	pdf.SetFont("Arial", "", 8)

	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Meals", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Calories", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Protein", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Carbs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Fat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Workouts", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Burned", "1", 1, "C", false, 0, "")

	for _, row := range rows {
		pdf.CellFormat(25, 6, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, strconv.Itoa(row.Meals), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, strconv.Itoa(row.Calories), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.Protein), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.Carbs), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.1f", row.Fat), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, strconv.Itoa(row.Workouts), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, strconv.Itoa(row.CaloriesBurned), "1", 1, "C", false, 0, "")
	}
}

func formatInt(val *int) string {
	if val == nil {
		return "no data"
	}
	return strconv.Itoa(*val)
}
