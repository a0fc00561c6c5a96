package analysis

import "strings"

// userInstruction is the fixed text accompanying the photo.
const userInstruction = "Analyze this meal and identify every visible food with its portion and nutritional values. Be precise and detailed."

// BuildSystemPrompt produces the instruction block for the vision model.
// The output is deterministic for a given includeMicronutrients value, so
// identical requests produce identical upstream payloads.
func BuildSystemPrompt(includeMicronutrients bool) string {
	var b strings.Builder

	b.WriteString("You are a nutritionist specialized in analyzing meals from photos. Your task is to:\n\n")
	b.WriteString("1. Identify ALL foods visible in the image with precision\n")
	b.WriteString("2. Estimate realistic portions based on the visual size of each food\n")
	b.WriteString("3. Calculate accurate nutritional values (calories, protein, carbohydrates, fat)\n")
	if includeMicronutrients {
		b.WriteString("4. Calculate detailed micronutrients (vitamins A, C, D, calcium, iron, fiber)\n")
		b.WriteString("5. Be detailed and specific when identifying foods\n")
		b.WriteString("6. Take visible preparations and cooking methods into account\n")
	} else {
		b.WriteString("4. Be detailed and specific when identifying foods\n")
		b.WriteString("5. Take visible preparations and cooking methods into account\n")
	}

	b.WriteString("\nIMPORTANT: Return ONLY a valid JSON object, with no additional text before or after.\n\n")
	b.WriteString("Required format:\n")
	b.WriteString(`{
  "foods": [
    {
      "name": "Specific name of the food",
      "portion": "Estimated portion (e.g. 200g, 1 medium unit, 1 cup)",
      "calories": integer,
      "protein": decimal_2_places,
      "carbs": decimal_2_places,
      "fat": decimal_2_places
    }
  ],
  "totals": {
    "calories": integer,
    "protein": decimal_2_places,
    "carbs": decimal_2_places,
    "fat": decimal_2_places
  },
`)
	if includeMicronutrients {
		b.WriteString(`  "micronutrients": {
    "vitaminA": decimal_2_places,
    "vitaminC": decimal_2_places,
    "vitaminD": decimal_2_places,
    "calcium": decimal_2_places,
    "iron": decimal_2_places,
    "fiber": decimal_2_places
  },
`)
	}
	b.WriteString(`  "notes": "Observations about the analysis (optional)"
}`)

	return b.String()
}

// UserPrompt returns the fixed user-side instruction text.
func UserPrompt() string {
	return userInstruction
}
