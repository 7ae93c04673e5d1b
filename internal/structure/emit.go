package structure

import (
	"fmt"
	"strings"

	"github.com/siyazhu/PAIPAI/internal/element"
	"github.com/siyazhu/PAIPAI/internal/lattice"
)

func symbolOrEmpty(id int) string {
	sym, ok := element.Symbol(id)
	if !ok {
		return "?"
	}
	return sym
}

func titleLine(s *Structure) string {
	var b strings.Builder
	for _, id := range s.Lattice.Metallic.ElementID {
		b.WriteString(symbolOrEmpty(id))
	}
	b.WriteString("+")
	for _, id := range s.Lattice.Interstitial.ElementID {
		b.WriteString(symbolOrEmpty(id))
	}
	return b.String()
}

func formatVec3(v lattice.Vec3) string {
	return fmt.Sprintf("%20.12f%20.12f%20.12f", v[0], v[1], v[2])
}

func symbolsLine(ids []int) string {
	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = symbolOrEmpty(id)
	}
	return strings.Join(fields, " ")
}

func countsLine(counts []int) string {
	fields := make([]string, len(counts))
	for i, c := range counts {
		fields[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(fields, " ")
}

// metallicPositionsBySpecies groups occupied metallic atom positions by
// species, in inventory order (spec.md §4.4).
func metallicPositionsBySpecies(s *Structure) [][]lattice.Vec3 {
	groups := make([][]lattice.Vec3, s.NumMetallicSpecies())
	for atom, sp := range s.Occ.SpeciesIndex {
		groups[sp] = append(groups[sp], s.Lattice.MetallicPositions[atom])
	}
	return groups
}

// interstitialPositionsBySpecies groups occupied interstitial site
// positions by species, in inventory order, and separately returns the
// positions of sites that are Empty (spec.md §4.4).
func interstitialPositionsBySpecies(s *Structure) (bySpecies [][]lattice.Vec3, empty []lattice.Vec3) {
	bySpecies = make([][]lattice.Vec3, s.NumInterstitialSpecies())
	for site, occ := range s.Occ.Site {
		pos := s.Lattice.InterstitialPositions[site]
		if occ == Empty {
			empty = append(empty, pos)
			continue
		}
		bySpecies[occ] = append(bySpecies[occ], pos)
	}
	return bySpecies, empty
}

// EmitPOSCAR renders the VASP-style POSCAR snapshot (spec.md §4.4):
// occupied metallic atoms grouped by species, then occupied interstitial
// sites grouped by species. Empty interstitial sites are omitted
// entirely.
func EmitPOSCAR(s *Structure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleLine(s))
	fmt.Fprintf(&b, "1.0\n")
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A1))
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A2))
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A3))

	allIDs := append(append([]int(nil), s.Lattice.Metallic.ElementID...), s.Lattice.Interstitial.ElementID...)
	fmt.Fprintf(&b, "%s\n", symbolsLine(allIDs))

	metGroups := metallicPositionsBySpecies(s)
	interGroups, _ := interstitialPositionsBySpecies(s)

	counts := make([]int, 0, len(metGroups)+len(interGroups))
	for _, g := range metGroups {
		counts = append(counts, len(g))
	}
	for _, g := range interGroups {
		counts = append(counts, len(g))
	}
	fmt.Fprintf(&b, "%s\n", countsLine(counts))
	fmt.Fprintf(&b, "Cartesian\n")

	for _, g := range metGroups {
		for _, v := range g {
			fmt.Fprintf(&b, "%s\n", formatVec3(v))
		}
	}
	for _, g := range interGroups {
		for _, v := range g {
			fmt.Fprintf(&b, "%s\n", formatVec3(v))
		}
	}

	return b.String()
}

// EmitSAVE renders the round-trippable SAVE snapshot (spec.md §4.4): a
// superset of POSCAR that also carries the full species inventories (so
// Parse can reconstruct CountPerSpecies), the total site count, and the
// Empty sites (last, after all occupied groups), so that a reload
// followed by another EmitSAVE is idempotent except for
// occupation-preserving permutations within species groups. Each
// inventory block carries its own comment line ahead of the symbols line,
// matching the shape Parse's parseInventory expects on read-back.
func EmitSAVE(s *Structure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleLine(s))
	fmt.Fprintf(&b, "1.0\n")
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A1))
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A2))
	fmt.Fprintf(&b, "%s\n", formatVec3(s.Lattice.Cell.A3))

	fmt.Fprintf(&b, "Metallic\n")
	fmt.Fprintf(&b, "%s\n", symbolsLine(s.Lattice.Metallic.ElementID))
	fmt.Fprintf(&b, "%s\n", countsLine(s.Occ.MetallicCount))
	fmt.Fprintf(&b, "Interstitial\n")
	fmt.Fprintf(&b, "%s\n", symbolsLine(s.Lattice.Interstitial.ElementID))
	fmt.Fprintf(&b, "%s\n", countsLine(s.Occ.InterstitialCount))
	fmt.Fprintf(&b, "%d\n", s.NumInterstitialSites())
	fmt.Fprintf(&b, "No Shuffle\n")
	fmt.Fprintf(&b, "Cartesian\n")

	metGroups := metallicPositionsBySpecies(s)
	interGroups, emptySitesPos := interstitialPositionsBySpecies(s)

	for _, g := range metGroups {
		for _, v := range g {
			fmt.Fprintf(&b, "%s\n", formatVec3(v))
		}
	}
	for _, g := range interGroups {
		for _, v := range g {
			fmt.Fprintf(&b, "%s\n", formatVec3(v))
		}
	}
	for _, v := range emptySitesPos {
		fmt.Fprintf(&b, "%s\n", formatVec3(v))
	}

	return b.String()
}
