package population

// Variant tags which strain of the virus, if any, a person is carrying.
type Variant int

const (
	// None means the person is not currently an active carrier.
	None Variant = iota
	Alpha
	Delta
)

// String renders the variant for logging.
func (v Variant) String() string {
	switch v {
	case Alpha:
		return "alpha"
	case Delta:
		return "delta"
	default:
		return "none"
	}
}

// Person is a data-only representation of a single agent. It carries no
// behavior of its own; all mutation happens through Population/Simulator
// methods so that the swap-partition and counter invariants hold.
type Person struct {
	Variant Variant

	// InfectedDay is the day the person's current (or most recent) carrier
	// episode began. Meaningless while the person has never been infected.
	InfectedDay int
	// SymptomOnset is the day, relative to the simulation's day counter,
	// that the current episode's symptoms begin.
	SymptomOnset int
	TestDay      int

	// NaturalImmunityScalar is drawn once at infection time and compared
	// against the natural-immunity curve to decide reinfection immunity.
	NaturalImmunityScalar float64
	// VaccineImmunityScalar is drawn once at vaccination time and compared
	// against the vaccine-immunity curve.
	VaccineImmunityScalar float64

	Vaccinated     bool
	VaccinationDay int

	Age int

	// everInfected distinguishes "never infected" from "currently variant
	// == None but was infected in the past" (a retired carrier). Variant
	// alone cannot carry this because it resets to None on retirement.
	everInfected bool
}

// IsInfected reports whether the person is currently carrying a variant.
func (p *Person) IsInfected() bool {
	return p.Variant != None
}

// EverInfected reports whether the person has been infected at any point,
// including episodes that have since ended.
func (p *Person) EverInfected() bool {
	return p.everInfected
}

// reset restores the person to its zero-value default state.
func (p *Person) reset() {
	*p = Person{}
}
