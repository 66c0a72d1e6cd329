package contact

// Coefficients holds the static and kinetic friction coefficients and
// maintains the invariant 0 <= kinetic <= static. The two setters adjust
// each other: setting a static coefficient below the current kinetic one
// lowers the kinetic coefficient to match, and setting a kinetic
// coefficient above the current static one raises the static coefficient.
// Static friction is conceptually the ceiling, so the propagation is
// asymmetric on purpose. Keeping both values behind one type avoids the
// ordering bugs two independent setters would invite.
type Coefficients struct {
	static  float64
	kinetic float64
}

// NewCoefficients builds a coefficient pair, clamping both values to be
// non-negative and the kinetic coefficient to be at most the static one.
func NewCoefficients(static, kinetic float64) Coefficients {
	if static < 0 {
		static = 0
	}
	if kinetic < 0 {
		kinetic = 0
	}
	if kinetic > static {
		kinetic = static
	}
	return Coefficients{static: static, kinetic: kinetic}
}

// Static returns the static coefficient of friction.
func (c Coefficients) Static() float64 { return c.static }

// Kinetic returns the kinetic coefficient of friction.
func (c Coefficients) Kinetic() float64 { return c.kinetic }

// SetStatic sets the static coefficient, clamping to >= 0. If the new
// value is below the current kinetic coefficient, the kinetic coefficient
// is lowered to match.
func (c *Coefficients) SetStatic(static float64) {
	if static < 0 {
		static = 0
	}
	c.static = static
	if c.kinetic > c.static {
		c.kinetic = c.static
	}
}

// SetKinetic sets the kinetic coefficient, clamping to >= 0. If the new
// value exceeds the current static coefficient, the static coefficient is
// raised to match.
func (c *Coefficients) SetKinetic(kinetic float64) {
	if kinetic < 0 {
		kinetic = 0
	}
	c.kinetic = kinetic
	if c.kinetic > c.static {
		c.static = c.kinetic
	}
}
