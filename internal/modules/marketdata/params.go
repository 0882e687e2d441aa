package marketdata

import "strings"

// Parameter tables for the synthetic price generator. Returns and volatility
// are annual figures, adjusted per instrument by risk level and market.

type priceRange struct {
	low, high float64
}

// initialPriceRanges maps category to a plausible starting price range.
// UAE listings trade at much lower nominal prices than US ones.
var initialPriceRanges = map[string]priceRange{
	"ETF":         {50, 400},
	"Stock":       {20, 200},
	"Bond":        {95, 105},
	"Mutual Fund": {10, 50},
	"Commodity":   {20, 2000},
}

var uaeInitialPriceRanges = map[string]priceRange{
	"Banking":     {5, 15},
	"Real Estate": {2, 8},
}

var defaultPriceRange = priceRange{10, 100}

// baseAnnualReturns maps market then category to an expected annual return.
var baseAnnualReturns = map[string]map[string]float64{
	"UAE": {
		"Banking":            0.08,
		"Real Estate":        0.06,
		"Government Bond":    0.035,
		"Islamic Bond":       0.04,
		"ETF":                0.07,
		"Mutual Fund":        0.08,
		"Islamic Fund":       0.075,
		"Commodity":          0.05,
		"Telecommunications": 0.06,
		"Utilities":          0.055,
		"Energy":             0.07,
		"Financial Services": 0.075,
		"Healthcare":         0.07,
		"Bond ETF":           0.04,
	},
	"US": {
		"ETF":              0.10,
		"Technology Stock": 0.15,
		"Consumer Stock":   0.12,
		"Automotive Stock": 0.18,
		"Bond ETF":         0.035,
		"Mutual Fund":      0.09,
		"REIT ETF":         0.08,
		"Commodity ETF":    0.06,
		"Stock":            0.12,
	},
}

// volatilityMultipliers scales the risk-level base volatility per category.
var volatilityMultipliers = map[string]float64{
	"Government Bond":    0.25,
	"Islamic Bond":       0.3,
	"Bond ETF":           0.35,
	"Banking":            0.7,
	"ETF":                0.9,
	"Mutual Fund":        0.85,
	"Islamic Fund":       0.8,
	"Stock":              1.1,
	"Technology Stock":   1.4,
	"Consumer Stock":     1.2,
	"Automotive Stock":   1.6,
	"Real Estate":        1.0,
	"Commodity":          1.3,
	"Commodity ETF":      1.2,
	"Telecommunications": 0.8,
	"Utilities":          0.6,
	"Energy":             1.1,
	"Financial Services": 1.0,
	"Healthcare":         0.9,
	"REIT ETF":           1.0,
}

func initialPriceRange(category, market string) priceRange {
	if market == "UAE" {
		if r, ok := uaeInitialPriceRanges[category]; ok {
			return r
		}
	}
	if r, ok := initialPriceRanges[category]; ok {
		return r
	}
	return defaultPriceRange
}

// expectedAnnualReturn looks up the category base return, adjusts it by risk
// level ((risk-5) x 1.5%) and dampens UAE instruments by 10%. The result is
// floored at 1%.
func expectedAnnualReturn(riskLevel int, category, market string) float64 {
	base := 0.08
	if marketReturns, ok := baseAnnualReturns[market]; ok {
		if r, ok := marketReturns[category]; ok {
			base = r
		} else {
			base = fallbackReturn(marketReturns, category)
		}
	}

	if market == "UAE" {
		base *= 0.9
	}

	adjusted := base + float64(riskLevel-5)*0.015
	if adjusted < 0.01 {
		return 0.01
	}
	return adjusted
}

// fallbackReturn widens the category match for unmapped categories.
func fallbackReturn(marketReturns map[string]float64, category string) float64 {
	switch {
	case strings.Contains(category, "Stock"):
		if r, ok := marketReturns["Stock"]; ok {
			return r
		}
	case strings.Contains(category, "Bond"):
		if r, ok := marketReturns["Bond ETF"]; ok {
			return r
		}
	case strings.Contains(category, "ETF"):
		if r, ok := marketReturns["ETF"]; ok {
			return r
		}
	}
	return 0.08
}

// annualVolatility derives volatility from risk level (1-10 maps to roughly
// 8%-30.5% before category scaling), floored at 5%.
func annualVolatility(riskLevel int, category string) float64 {
	base := 0.08 + float64(riskLevel-1)*0.025

	multiplier := 1.0
	if m, ok := volatilityMultipliers[category]; ok {
		multiplier = m
	} else {
		switch {
		case strings.Contains(category, "Stock"):
			multiplier = 1.1
		case strings.Contains(category, "Bond"):
			multiplier = 0.35
		case strings.Contains(category, "ETF"):
			multiplier = 0.9
		}
	}

	vol := base * multiplier
	if vol < 0.05 {
		return 0.05
	}
	return vol
}

// hasVolume reports whether instruments of this category trade with a
// published volume figure.
func hasVolume(category string) bool {
	return strings.Contains(category, "ETF") || strings.Contains(category, "Stock")
}
