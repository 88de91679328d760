package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"stock-ai-predictor/internal/executor/dto"
)

const (
	sentimentSystemRole   = "You are an expert in financial sentiment analysis."
	correlationSystemRole = "You are an expert in financial market analysis and pattern recognition."
	predictionSystemRole  = "You are an expert AI stock analyst specialising in pattern recognition and sentiment analysis."
)

// BuildSentimentPrompt asks for a sentiment record for one finance-related text.
func BuildSentimentPrompt(text string) string {
	promptTemplate := `Analyse the sentiment of the following text about the stock market or finance.
Respond with a JSON object containing:
- sentiment_score: a number between -1 (very negative) and 1 (very positive)
- sentiment_label: one of "positive", "negative" or "neutral"
- key_points: a list of the key points that drove the sentiment

Text: %s

Respond with valid JSON only, no other text.`

	return fmt.Sprintf(promptTemplate, text)
}

// BuildCorrelationPrompt asks for pairwise relationships across trend summaries.
func BuildCorrelationPrompt(summaries []dto.TrendSummary) string {
	promptTemplate := `Analyse the following market data and identify potential correlations or inverse relationships between the instruments.

Data: %s

Identify:
1. Instruments that tend to move in opposite directions (inverse correlation)
2. Instruments that tend to move together (positive correlation)
3. Other notable patterns or relationships

Respond with a JSON array of correlations using this structure:
[
  {
    "instrument1": "SYMBOL1",
    "instrument2": "SYMBOL2",
    "relationship": "inverse" or "positive",
    "strength": "strong", "moderate" or "weak",
    "explanation": "Short explanation of the relationship"
  }
]

Respond with valid JSON only, no other text.`

	return fmt.Sprintf(promptTemplate, indentJSON(summaries))
}

// PredictionPromptData is everything rendered into a forecast request.
type PredictionPromptData struct {
	Symbol         string
	Name           string
	ChangePercent  float64
	LastClose      float64
	News           []dto.NewsSignal
	Social         dto.SocialSummary
	MarketOverview dto.MarketOverview
	Correlations   []dto.Correlation
}

// BuildPredictionPrompt asks for a one-week directional forecast.
func BuildPredictionPrompt(data PredictionPromptData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As an AI stock analyst, predict the direction of %s (%s) for the coming week.\n\n", data.Name, data.Symbol)
	b.WriteString("Current data:\n")
	fmt.Fprintf(&b, "- Price change over the last 30 days: %.2f%%\n", data.ChangePercent)
	fmt.Fprintf(&b, "- Current price: $%.2f\n\n", data.LastClose)
	fmt.Fprintf(&b, "Latest news (last 7 days):\n%s\n\n", indentJSON(data.News))
	fmt.Fprintf(&b, "Social media sentiment:\n%s\n\n", indentJSON(data.Social))
	fmt.Fprintf(&b, "Market context:\n%s\n\n", indentJSON(data.MarketOverview))
	fmt.Fprintf(&b, "Known correlations:\n%s\n\n", indentJSON(data.Correlations))
	b.WriteString(`Based on pattern recognition and the data above, give a prediction with this JSON structure:
{
  "direction": "up" or "down",
  "confidence": 0.0 to 1.0,
  "strategy": "momentum", "contrarian", "correlation" or "news_impact",
  "reasoning": "Detailed explanation of the prediction",
  "key_factors": ["list", "of", "key", "factors"],
  "risk_level": "low", "medium" or "high"
}

Focus on:
1. Pattern recognition from news and social sentiment
2. Correlation effects from related instruments
3. Market context and overall trends
4. Contrarian opportunities (overly negative or overly positive sentiment)

Respond with valid JSON only, no other text.`)
	return b.String()
}

func indentJSON(v interface{}) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}
