package engine

import "fmt"

var temperatureSymbols = map[string]string{
	UnitCelsius:    "°C",
	UnitFahrenheit: "°F",
	UnitKelvin:     "K",
}

// FormatValue renders a number for display. Temperatures use two decimals;
// other domains switch to scientific notation for very small or large magnitudes.
func FormatValue(v float64, domain Domain) string {
	if domain == Temperature {
		return fmt.Sprintf("%.2f", v)
	}
	if v < 0.001 || v > 1000000 {
		return fmt.Sprintf("%.6e", v)
	}
	return fmt.Sprintf("%.6f", v)
}

// FormatQuantity renders a value followed by its unit, e.g. "1.000000 kilometers" or "32.00 °F".
func FormatQuantity(v float64, unit string, domain Domain) string {
	if domain == Temperature {
		symbol, ok := temperatureSymbols[unit]
		if !ok {
			symbol = unit
		}
		return FormatValue(v, domain) + " " + symbol
	}
	return FormatValue(v, domain) + " " + DisplayName(unit)
}
