package service

import (
	"fmt"
)

const (
	insightSystemRole = "You are a financial market analyst who writes daily market insights."
	reviewSystemRole  = "You are an expert in trading strategy optimisation."

	// InsightFallback is returned when no insight could be generated.
	InsightFallback = "Could not generate market insights at this time."

	maxInsightDataChars = 3000
)

func buildInsightPrompt(data string) string {
	return fmt.Sprintf(`Based on the following market data, give the key insights and trends:

%s

Cover:
1. Overall market sentiment
2. The main trends identified
3. Sectors showing strength or weakness
4. Important news themes moving the market
5. Risk factors to watch

Write a concise analysis (3-4 paragraphs).`, data)
}

func buildStrategyReviewPrompt(stats string) string {
	return fmt.Sprintf(`Analyse the performance of the following trading strategies:

%s

Give recommendations on:
1. Which strategies work best
2. Which strategies should be adjusted or avoided
3. Possible improvements for low-performing strategies

Respond with a JSON object containing:
{
  "best_strategy": "strategy name",
  "worst_strategy": "strategy name",
  "recommendations": ["list", "of", "recommendations"],
  "market_condition_assessment": "assessment of current market conditions"
}

Respond with valid JSON only, no other text.`, stats)
}
