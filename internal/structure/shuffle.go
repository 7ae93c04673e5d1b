package structure

import "github.com/siyazhu/PAIPAI/internal/rng"

// shuffleSwapAttempts is the fixed number of random metallic swap
// attempts the initializer performs (spec.md §4.2).
const shuffleSwapAttempts = 10

// Shuffle is the one-shot initial randomizer described in spec.md §4.2:
// it is invoked by Parse when the strfile's shuffle flag is set and is
// NOT part of the MC move repertoire (dispatcher proposals never call
// it). It performs 10 random metallic swap attempts (uniform over pairs,
// duplicates permitted, a same-species draw is simply a no-op attempt —
// nothing re-rolls to force a success) and then, for each interstitial
// species with count c, assigns c distinct empty sites chosen uniformly
// at random.
func Shuffle(s *Structure, r *rng.Source) {
	n := s.NumMetallicAtoms()
	if n > 0 {
		for i := 0; i < shuffleSwapAttempts; i++ {
			a := r.Intn(n)
			b := r.Intn(n)
			s.SwapMetal(a, b)
		}
	}

	// The sequential post-parse fill (spec.md §4.1) already occupies the
	// first count[i] sites per species in order; shuffle re-draws a fresh
	// random placement, so every site starts Empty again before the
	// per-species random picks below.
	for i := range s.Occ.Site {
		s.Occ.Site[i] = Empty
	}

	for sp, count := range s.Occ.InterstitialCount {
		assigned := 0
		for assigned < count {
			candidates := emptySites(s)
			if len(candidates) == 0 {
				break
			}
			pick := candidates[r.Intn(len(candidates))]
			s.Occ.Site[pick] = sp
			assigned++
		}
	}
}

func emptySites(s *Structure) []int {
	var out []int
	for i, occ := range s.Occ.Site {
		if occ == Empty {
			out = append(out, i)
		}
	}
	return out
}
