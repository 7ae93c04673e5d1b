package structure

// SwapMetal exchanges the species of two metallic atoms (spec.md §4.3).
// Returns StatusOutOfRange if either index is out of bounds,
// StatusNoop if the two atoms already share a species (no mutation
// occurs — species counts and positions are untouched either way),
// otherwise StatusSuccess.
func (s *Structure) SwapMetal(a, b int) int {
	n := s.NumMetallicAtoms()
	if a < 0 || a >= n || b < 0 || b >= n {
		return StatusOutOfRange
	}
	if s.Occ.SpeciesIndex[a] == s.Occ.SpeciesIndex[b] {
		return StatusNoop
	}
	s.Occ.SpeciesIndex[a], s.Occ.SpeciesIndex[b] = s.Occ.SpeciesIndex[b], s.Occ.SpeciesIndex[a]
	return StatusSuccess
}

// ExchangeMetal reassigns atom a's species to t, adjusting the live
// species counts by exactly +-1 so NumMetallicAtoms stays constant
// (spec.md §4.3).
func (s *Structure) ExchangeMetal(a, t int) int {
	n := s.NumMetallicAtoms()
	if a < 0 || a >= n {
		return StatusOutOfRange
	}
	if t < 0 || t >= s.NumMetallicSpecies() {
		return StatusInvalidType
	}
	old := s.Occ.SpeciesIndex[a]
	if old == t {
		return StatusNoop
	}
	s.Occ.MetallicCount[old]--
	s.Occ.MetallicCount[t]++
	s.Occ.SpeciesIndex[a] = t
	return StatusSuccess
}

// SwapInterstitial exchanges the occupation of two interstitial sites.
// Either site may be Empty; the pre-condition is only that the two
// occupations differ (spec.md §4.3).
func (s *Structure) SwapInterstitial(a, b int) int {
	n := s.NumInterstitialSites()
	if a < 0 || a >= n || b < 0 || b >= n {
		return StatusOutOfRange
	}
	if s.Occ.Site[a] == s.Occ.Site[b] {
		return StatusNoop
	}
	s.Occ.Site[a], s.Occ.Site[b] = s.Occ.Site[b], s.Occ.Site[a]
	return StatusSuccess
}

// ExchangeInterstitial sets site a's occupation to t (a species index or
// Empty), adjusting the live interstitial species counts: decrementing
// only when the old occupation was not Empty, incrementing only when the
// new one is not Empty (spec.md §4.3).
//
// The no-op pre-condition compares t against site a's *own* current
// occupation — see DESIGN.md's "Open Question decisions" #1 for why this
// is the corrected comparison rather than a cross-referenced field.
func (s *Structure) ExchangeInterstitial(a, t int) int {
	n := s.NumInterstitialSites()
	if a < 0 || a >= n {
		return StatusOutOfRange
	}
	if t < Empty || t >= s.NumInterstitialSpecies() {
		return StatusInvalidType
	}
	old := s.Occ.Site[a]
	if old == t {
		return StatusNoop
	}
	if old != Empty {
		s.Occ.InterstitialCount[old]--
	}
	if t != Empty {
		s.Occ.InterstitialCount[t]++
	}
	s.Occ.Site[a] = t
	return StatusSuccess
}
