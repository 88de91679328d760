package entity

import "strings"

// Direction is a forecast direction. Forecasts are binary.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	// DirectionNeutral only ever appears as a realized outcome.
	DirectionNeutral Direction = "neutral"
)

// ParseForecastDirection accepts "up" or "down" in any case.
func ParseForecastDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, true
	case DirectionDown:
		return DirectionDown, true
	}
	return "", false
}
