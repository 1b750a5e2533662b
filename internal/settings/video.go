package settings

// Handedness controls which permutation the frame processor applies to
// a detected quad's corners.
type Handedness int

const (
	HandednessAuto Handedness = iota
	HandednessLeft
	HandednessRight
	// HandednessNone marks a landscape-like detection for which no
	// left/right permutation applies.
	HandednessNone
)

// Colour is a camera-space RGB triple.
type Colour struct {
	R, G, B byte
}

// DefaultFilterRadius is the default Euclidean border-colour distance
// threshold, in RGB space.
const DefaultFilterRadius = 50.0

// VideoSettings configures how the frame processor filters and
// interprets camera frames.
type VideoSettings struct {
	BorderColour          Colour
	FilterRadius          float64
	Handedness            Handedness
	OnlyMatchWherePointing bool
	UseAntiJitter         bool
	JitterMoveThreshold   float64 // percent
	YSightOffset          float64 // percent, derived from physical TV size
}

// DefaultVideoSettings returns production-typical defaults.
func DefaultVideoSettings() VideoSettings {
	return VideoSettings{
		BorderColour:           Colour{R: 255, G: 255, B: 255},
		FilterRadius:           DefaultFilterRadius,
		Handedness:             HandednessAuto,
		OnlyMatchWherePointing: false,
		UseAntiJitter:          true,
		JitterMoveThreshold:    0.5,
		YSightOffset:           0,
	}
}
