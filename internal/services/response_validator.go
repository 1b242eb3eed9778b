package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// CleanModelResponse strips the decoration models wrap around JSON payloads:
// markdown code fences and any prose before the first '{' or after the last
// '}'. The result may still be invalid JSON; DecodeRecommendation decides.
func CleanModelResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return cleaned
	}
	return cleaned[start : end+1]
}

// DecodeRecommendation parses cleaned model output into a Recommendation.
// Models drift from the requested schema in predictable ways (numbers as
// strings, missing fields), so plan entries are coerced field by field
// rather than decoded into a rigid struct. A payload whose top-level shape
// is wrong is rejected outright.
func DecodeRecommendation(text string) (*models.Recommendation, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	plan, ok := raw["budgetPlan"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("budgetPlan is missing or not an array")
	}
	insights, ok := raw["insights"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("insights is missing or not an array")
	}
	warnings, ok := raw["warnings"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("warnings is missing or not an array")
	}
	summary, ok := raw["summary"].(string)
	if !ok {
		return nil, fmt.Errorf("summary is missing or not a string")
	}

	rec := &models.Recommendation{
		BudgetPlan: make([]models.PlanEntry, 0, len(plan)),
		Insights:   stringItems(insights),
		Warnings:   stringItems(warnings),
		Summary:    summary,
	}

	for _, item := range plan {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rec.BudgetPlan = append(rec.BudgetPlan, models.PlanEntry{
			Category:  coerceString(entry["category"], "Miscellaneous"),
			Amount:    coerceNumber(entry["amount"]),
			Percent:   coerceNumber(entry["percent"]),
			Reasoning: coerceString(entry["reasoning"], "Budget allocation"),
		})
	}

	return rec, nil
}

func stringItems(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func coerceString(v interface{}, fallback string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func coerceNumber(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return 0
}
