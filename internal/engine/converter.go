package engine

type converterFunc func(value float64, from, to string) (float64, error)

var converters = map[Domain]converterFunc{
	Length:      linear(Length, lengthUnits),
	Weight:      linear(Weight, weightUnits),
	Temperature: convertTemperature,
	Volume:      linear(Volume, volumeUnits),
}

var domainOrder = []Domain{Length, Weight, Temperature, Volume}

// Convert converts value from one unit to another within domain.
// It returns *UnknownUnitError or *UnknownDomainError on caller mistakes and
// is safe for concurrent use.
func Convert(value float64, from, to string, domain Domain) (float64, error) {
	conv, ok := converters[domain]
	if !ok {
		return 0, &UnknownDomainError{Domain: string(domain)}
	}
	return conv(value, from, to)
}

// ParseDomain validates a domain tag coming from a caller.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if _, ok := converters[d]; !ok {
		return "", &UnknownDomainError{Domain: s}
	}
	return d, nil
}

// Domains returns every supported domain in menu order.
func Domains() []Domain {
	return append([]Domain(nil), domainOrder...)
}

// ListUnits returns the unit codes of domain in declaration order.
func ListUnits(domain Domain) ([]string, error) {
	var codes []string
	switch domain {
	case Length:
		codes = lengthUnits.codes
	case Weight:
		codes = weightUnits.codes
	case Temperature:
		codes = temperatureUnits
	case Volume:
		codes = volumeUnits.codes
	default:
		return nil, &UnknownDomainError{Domain: string(domain)}
	}
	return append([]string(nil), codes...), nil
}

// IsLinear reports whether domain converts through a multiplicative base unit.
func IsLinear(domain Domain) bool {
	return domain == Length || domain == Weight || domain == Volume
}

// DisplayName returns the human-readable name of a unit, falling back to the code itself.
func DisplayName(code string) string {
	if name, ok := unitNames[code]; ok {
		return name
	}
	return code
}

// FormatOption renders a unit as a menu entry, e.g. "kilometers (km)".
func FormatOption(code string) string {
	return DisplayName(code) + " (" + code + ")"
}

// --- DOMAIN HANDLERS ---

func linear(domain Domain, table unitTable) converterFunc {
	return func(value float64, from, to string) (float64, error) {
		fromFactor, ok := table.factors[from]
		if !ok {
			return 0, &UnknownUnitError{Unit: from, Domain: domain}
		}
		toFactor, ok := table.factors[to]
		if !ok {
			return 0, &UnknownUnitError{Unit: to, Domain: domain}
		}
		// value -> base -> target
		return value * fromFactor / toFactor, nil
	}
}

// convertTemperature pivots through Celsius since F and K carry their own zero offsets.
func convertTemperature(value float64, from, to string) (float64, error) {
	var celsius float64
	switch from {
	case UnitCelsius:
		celsius = value
	case UnitFahrenheit:
		celsius = (value - 32) * 5 / 9
	case UnitKelvin:
		celsius = value - 273.15
	default:
		return 0, &UnknownUnitError{Unit: from, Domain: Temperature}
	}

	switch to {
	case UnitCelsius:
		return celsius, nil
	case UnitFahrenheit:
		return celsius*9/5 + 32, nil
	case UnitKelvin:
		return celsius + 273.15, nil
	}
	return 0, &UnknownUnitError{Unit: to, Domain: Temperature}
}
