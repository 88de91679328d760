package entity

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Strategy names the reasoning approach the model claimed for a forecast.
// The set is open: tags the model invents are kept verbatim and registered
// the first time they are seen.
type Strategy string

const (
	StrategyMomentum    Strategy = "momentum"
	StrategyContrarian  Strategy = "contrarian"
	StrategyCorrelation Strategy = "correlation"
	StrategyNewsImpact  Strategy = "news_impact"

	maxStrategyLength = 50
)

var strategyRegistry = struct {
	sync.RWMutex
	known map[Strategy]struct{}
}{
	known: map[Strategy]struct{}{
		StrategyMomentum:    {},
		StrategyContrarian:  {},
		StrategyCorrelation: {},
		StrategyNewsImpact:  {},
	},
}

// ParseStrategy validates a strategy tag. Surrounding whitespace is removed;
// the rest is kept as-is.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("strategy is empty")
	}
	if len(s) > maxStrategyLength {
		return "", fmt.Errorf("strategy %q exceeds %d characters", s, maxStrategyLength)
	}
	return Strategy(s), nil
}

// RegisterStrategy adds s to the known set and reports whether it was new.
func RegisterStrategy(s Strategy) bool {
	strategyRegistry.Lock()
	defer strategyRegistry.Unlock()
	if _, ok := strategyRegistry.known[s]; ok {
		return false
	}
	strategyRegistry.known[s] = struct{}{}
	return true
}

func IsKnownStrategy(s Strategy) bool {
	strategyRegistry.RLock()
	defer strategyRegistry.RUnlock()
	_, ok := strategyRegistry.known[s]
	return ok
}

// KnownStrategies returns the registered tags in lexical order.
func KnownStrategies() []Strategy {
	strategyRegistry.RLock()
	defer strategyRegistry.RUnlock()
	out := make([]Strategy, 0, len(strategyRegistry.known))
	for s := range strategyRegistry.known {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
