// Package analysis characterises automaton runs after the fact.
//
//   - [PowerSpectrum] and [DominantPeriod]: oscillation in an alive-count
//     series
//   - [FindCycle]: transient length and period of an exactly repeating
//     trajectory
//   - [Damage]: how a single flipped cell spreads, the cellular analogue of
//     trajectory separation
//
// # Damage spreading
//
// A positive [DamageRate] means a one-cell difference keeps growing:
//
//	d, _ := analysis.Damage(cfg, g0, r, c, 200, seed)
//	if analysis.DamageRate(d) > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
