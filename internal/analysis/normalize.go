package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoFoods means the model produced an object without any identified food.
var ErrNoFoods = errors.New("analysis contains no foods")

const (
	placeholderName    = "Unidentified food"
	placeholderPortion = "Portion not specified"
)

// Normalize turns a loosely-typed parsed completion into a schema-valid
// MealAnalysis. Totals are always recomputed from the normalized foods.
// Micronutrients are kept only when the caller asked for them and the model
// supplied the block; they are never fabricated.
func Normalize(raw *rawResult, includeMicronutrients bool) (*MealAnalysis, error) {
	if raw == nil || len(raw.Foods) == 0 {
		return nil, ErrNoFoods
	}

	foods := make([]FoodItem, 0, len(raw.Foods))
	for _, entry := range raw.Foods {
		food := FoodItem{
			Name:     entry.Name,
			Portion:  entry.Portion,
			Calories: int(math.Round(numberOrZero(entry.Calories))),
			Protein:  round2(numberOrZero(entry.Protein)),
			Carbs:    round2(numberOrZero(entry.Carbs)),
			Fat:      round2(numberOrZero(entry.Fat)),
		}
		if food.Name == "" {
			food.Name = placeholderName
		}
		if food.Portion == "" {
			food.Portion = placeholderPortion
		}
		foods = append(foods, food)
	}

	var totals Totals
	var proteinSum, carbsSum, fatSum float64
	for _, food := range foods {
		totals.Calories += food.Calories
		proteinSum += food.Protein
		carbsSum += food.Carbs
		fatSum += food.Fat
	}
	totals.Protein = round2(proteinSum)
	totals.Carbs = round2(carbsSum)
	totals.Fat = round2(fatSum)

	result := &MealAnalysis{
		Foods:  foods,
		Totals: totals,
		Notes:  raw.Notes,
	}

	if includeMicronutrients && raw.Micronutrients != nil {
		result.Micronutrients = &Micronutrients{
			VitaminA: round2(numberOrZero(raw.Micronutrients.VitaminA)),
			VitaminC: round2(numberOrZero(raw.Micronutrients.VitaminC)),
			VitaminD: round2(numberOrZero(raw.Micronutrients.VitaminD)),
			Calcium:  round2(numberOrZero(raw.Micronutrients.Calcium)),
			Iron:     round2(numberOrZero(raw.Micronutrients.Iron)),
			Fiber:    round2(numberOrZero(raw.Micronutrients.Fiber)),
		}
	}

	if result.Notes == "" {
		result.Notes = fmt.Sprintf("Analysis completed successfully. %d food(s) identified.", len(foods))
	}

	return result, nil
}

// numberOrZero coerces a loosely-typed numeric field. Missing, non-numeric,
// NaN and negative values all collapse to 0.
func numberOrZero(v any) float64 {
	var value float64

	switch n := v.(type) {
	case nil:
		return 0
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		value = parsed
	case float64:
		value = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		value = parsed
	default:
		return 0
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
