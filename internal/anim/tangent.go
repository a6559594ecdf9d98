package anim

// TangentKind selects how a key's tangent slopes are derived.
type TangentKind int

const (
	TangentAuto TangentKind = iota
	TangentSmooth
	TangentLinear
	TangentFlat
	TangentStep
	TangentFast
	TangentSlow
	TangentCustom
)

var tangentKindNames = map[TangentKind]string{
	TangentAuto:   "auto",
	TangentSmooth: "smooth",
	TangentLinear: "linear",
	TangentFlat:   "flat",
	TangentStep:   "step",
	TangentFast:   "fast",
	TangentSlow:   "slow",
	TangentCustom: "custom",
}

func (k TangentKind) String() string {
	if s, ok := tangentKindNames[k]; ok {
		return s
	}
	return "auto"
}

// ParseTangentKind maps a name to its kind. Unknown names default to auto.
func ParseTangentKind(s string) TangentKind {
	for k, name := range tangentKindNames {
		if name == s {
			return k
		}
	}
	return TangentAuto
}

// Tangent is the full tangent state of one key. Slopes are value units per
// time unit; lengths are the fraction of the key interval covered by the
// handle. FreeHandle allows In and Out to differ.
type Tangent struct {
	Kind       TangentKind
	InSlope    float64
	OutSlope   float64
	InLength   float64
	OutLength  float64
	FreeHandle bool
}
