package mcstate

import "math"

// Accept implements the Metropolis acceptance rule (spec.md §4.7):
// always accept when the proposal lowers energy, otherwise accept with
// probability exp(-(Enew-Eold)/T) against one draw u from [0,1).
// Temperature has units of energy; no Boltzmann constant is applied.
func Accept(eOld, eNew, temperature, u float64) bool {
	if eNew <= eOld {
		return true
	}
	p := math.Exp(-(eNew - eOld) / temperature)
	return u < p
}
