package engine

// Domain selects which unit table or formula applies to a conversion.
type Domain string

const (
	Length      Domain = "length"
	Weight      Domain = "weight"
	Temperature Domain = "temperature"
	Volume      Domain = "volume"
)

// unitTable keeps codes in declaration order next to their factor lookup.
// Factors are expressed in base units per one unit of the code.
type unitTable struct {
	codes   []string
	factors map[string]float64
}

type unitFactor struct {
	code   string
	factor float64
}

func newUnitTable(entries ...unitFactor) unitTable {
	t := unitTable{
		codes:   make([]string, 0, len(entries)),
		factors: make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		t.codes = append(t.codes, e.code)
		t.factors[e.code] = e.factor
	}
	return t
}

// --- UNIT TABLES (read-only after init) ---

// Base: meter
var lengthUnits = newUnitTable(
	unitFactor{"mm", 0.001},
	unitFactor{"cm", 0.01},
	unitFactor{"m", 1.0},
	unitFactor{"km", 1000.0},
	unitFactor{"in", 0.0254},
	unitFactor{"ft", 0.3048},
	unitFactor{"yd", 0.9144},
	unitFactor{"mi", 1609.34},
)

// Base: kilogram
var weightUnits = newUnitTable(
	unitFactor{"mg", 0.000001},
	unitFactor{"g", 0.001},
	unitFactor{"kg", 1.0},
	unitFactor{"oz", 0.0283495},
	unitFactor{"lb", 0.453592},
	unitFactor{"ton", 907.185},
)

// Base: liter
var volumeUnits = newUnitTable(
	unitFactor{"ml", 0.001},
	unitFactor{"l", 1.0},
	unitFactor{"gal", 3.78541},
	unitFactor{"qt", 0.946353},
	unitFactor{"pt", 0.473176},
	unitFactor{"fl_oz", 0.0295735},
)

const (
	UnitCelsius    = "C"
	UnitFahrenheit = "F"
	UnitKelvin     = "K"
)

var temperatureUnits = []string{UnitCelsius, UnitFahrenheit, UnitKelvin}

var unitNames = map[string]string{
	"mm":    "millimeters",
	"cm":    "centimeters",
	"m":     "meters",
	"km":    "kilometers",
	"in":    "inches",
	"ft":    "feet",
	"yd":    "yards",
	"mi":    "miles",
	"mg":    "milligrams",
	"g":     "grams",
	"kg":    "kilograms",
	"oz":    "ounces",
	"lb":    "pounds",
	"ton":   "tons",
	"ml":    "milliliters",
	"l":     "liters",
	"gal":   "gallons",
	"qt":    "quarts",
	"pt":    "pints",
	"fl_oz": "fluid ounces",
	"C":     "Celsius",
	"F":     "Fahrenheit",
	"K":     "Kelvin",
}
