package structure

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/siyazhu/PAIPAI/internal/element"
	"github.com/siyazhu/PAIPAI/internal/lattice"
	"github.com/siyazhu/PAIPAI/internal/rng"
	"github.com/siyazhu/PAIPAI/pkg/paierrors"
)

// lineCursor walks a strfile's lines in the fixed order §4.1 requires.
type lineCursor struct {
	lines []string
	pos   int
}

func (c *lineCursor) next() (string, error) {
	if c.pos >= len(c.lines) {
		return "", fmt.Errorf("%w: ran out of input at line %d", paierrors.ErrTruncatedRecord, c.pos+1)
	}
	line := c.lines[c.pos]
	c.pos++
	return line, nil
}

func (c *lineCursor) nextFields() ([]string, error) {
	line, err := c.next()
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

func parseReal(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a real number", paierrors.ErrMalformedHeader, tok)
	}
	return v, nil
}

func parseVec3(fields []string) (lattice.Vec3, error) {
	if len(fields) < 3 {
		return lattice.Vec3{}, fmt.Errorf("%w: expected 3 reals, got %d", paierrors.ErrTruncatedRecord, len(fields))
	}
	var v lattice.Vec3
	for i := 0; i < 3; i++ {
		f, err := parseReal(fields[i])
		if err != nil {
			return lattice.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", paierrors.ErrMalformedHeader, f)
		}
		out[i] = n
	}
	return out, nil
}

func parseInventory(cursor *lineCursor) (lattice.Inventory, error) {
	// "Blank/comment line, then a whitespace-delimited list of ... symbols."
	if _, err := cursor.next(); err != nil {
		return lattice.Inventory{}, err
	}
	symFields, err := cursor.nextFields()
	if err != nil {
		return lattice.Inventory{}, err
	}
	ids := make([]int, len(symFields))
	for i, sym := range symFields {
		n, ok := element.AtomicNumber(sym)
		if !ok {
			return lattice.Inventory{}, fmt.Errorf("%w: %q", paierrors.ErrUnknownElement, sym)
		}
		ids[i] = n
	}
	countFields, err := cursor.nextFields()
	if err != nil {
		return lattice.Inventory{}, err
	}
	if len(countFields) != len(ids) {
		return lattice.Inventory{}, fmt.Errorf("%w: %d symbols but %d counts", paierrors.ErrTruncatedRecord, len(ids), len(countFields))
	}
	counts, err := parseInts(countFields)
	if err != nil {
		return lattice.Inventory{}, err
	}
	return lattice.Inventory{ElementID: ids, CountPerSpecies: counts}, nil
}

// coordMode reports whether positions that follow are Cartesian (true) or
// fractional (false), per the first-character rule in spec.md §4.1.
func coordMode(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case 'C', 'c', 'K', 'k':
		return true
	default:
		return false
	}
}

func toCartesian(v lattice.Vec3, cartesian bool, scale float64, cell lattice.Cell) lattice.Vec3 {
	if cartesian {
		return lattice.Vec3{v[0] * scale, v[1] * scale, v[2] * scale}
	}
	var out lattice.Vec3
	for i := 0; i < 3; i++ {
		out[i] = v[0]*cell.A1[i] + v[1]*cell.A2[i] + v[2]*cell.A3[i]
	}
	return out
}

// Parse reads a strfile (spec.md §4.1) and returns a newly built
// Structure; reloading a file means calling Parse again.
// r is the single seedable generator (see spec.md §9's RNG redesign note)
// used if the file's shuffle flag (§4.2) is set; pass any *rng.Source,
// including a freshly-seeded one, when the caller has no opinion on seed
// reuse (e.g. the `inspect` subcommand).
func Parse(path string, r *rng.Source) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", paierrors.ErrMissingFile, path)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", paierrors.ErrEmptyFile, path)
	}

	rawLines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	cursor := &lineCursor{lines: rawLines}

	// 1. Header line (discarded).
	if _, err := cursor.next(); err != nil {
		return nil, err
	}

	// 2. Scale factor.
	scaleFields, err := cursor.nextFields()
	if err != nil {
		return nil, err
	}
	if len(scaleFields) < 1 {
		return nil, fmt.Errorf("%w: missing scale factor", paierrors.ErrMalformedHeader)
	}
	scale, err := parseReal(scaleFields[0])
	if err != nil {
		return nil, err
	}

	// 3. Three cell-vector lines (pre-scaled: scale applied after read).
	var cell lattice.Cell
	for _, dst := range []*lattice.Vec3{&cell.A1, &cell.A2, &cell.A3} {
		fields, err := cursor.nextFields()
		if err != nil {
			return nil, err
		}
		v, err := parseVec3(fields)
		if err != nil {
			return nil, err
		}
		*dst = lattice.Vec3{v[0] * scale, v[1] * scale, v[2] * scale}
	}

	// 4-5. Metallic species inventory.
	metallic, err := parseInventory(cursor)
	if err != nil {
		return nil, err
	}

	// 6-7. Interstitial species inventory.
	interstitial, err := parseInventory(cursor)
	if err != nil {
		return nil, err
	}

	// 8. num_interstitial (total site count).
	niFields, err := cursor.nextFields()
	if err != nil {
		return nil, err
	}
	if len(niFields) < 1 {
		return nil, fmt.Errorf("%w: missing num_interstitial", paierrors.ErrMalformedHeader)
	}
	numInterstitial, err := strconv.Atoi(niFields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: num_interstitial %q is not an integer", paierrors.ErrMalformedHeader, niFields[0])
	}

	// 9. Shuffle flag.
	shuffleLine, err := cursor.next()
	if err != nil {
		return nil, err
	}
	shuffle := strings.TrimSpace(shuffleLine) == "Shuffle"

	// 10. Coordinate mode.
	modeLine, err := cursor.next()
	if err != nil {
		return nil, err
	}
	cartesian := coordMode(strings.TrimSpace(modeLine))

	// 11. Metallic atom positions, grouped by species block, inventory order.
	numMetallic := metallic.Total()
	positions := make([]lattice.Vec3, numMetallic)
	speciesIndex := make([]int, numMetallic)
	idx := 0
	for sp, count := range metallic.CountPerSpecies {
		for k := 0; k < count; k++ {
			fields, err := cursor.nextFields()
			if err != nil {
				return nil, err
			}
			v, err := parseVec3(fields)
			if err != nil {
				return nil, err
			}
			positions[idx] = toCartesian(v, cartesian, scale, cell)
			speciesIndex[idx] = sp
			idx++
		}
	}

	// 12. Interstitial site positions.
	sitePositions := make([]lattice.Vec3, numInterstitial)
	for i := 0; i < numInterstitial; i++ {
		fields, err := cursor.nextFields()
		if err != nil {
			return nil, err
		}
		v, err := parseVec3(fields)
		if err != nil {
			return nil, err
		}
		sitePositions[i] = toCartesian(v, cartesian, scale, cell)
	}

	lat := &lattice.Lattice{
		Cell:                  cell,
		Metallic:              metallic,
		Interstitial:          interstitial,
		MetallicPositions:     positions,
		InterstitialPositions: sitePositions,
	}

	// Initialize interstitial occupations: fill the first
	// count_per_species[0] sites with species 0, the next with species 1,
	// and so on; remaining sites are Empty (spec.md §4.1).
	siteOcc := make([]int, numInterstitial)
	for i := range siteOcc {
		siteOcc[i] = Empty
	}
	cursorSite := 0
	for sp, count := range interstitial.CountPerSpecies {
		for k := 0; k < count && cursorSite < numInterstitial; k++ {
			siteOcc[cursorSite] = sp
			cursorSite++
		}
	}

	metallicCount := append([]int(nil), metallic.CountPerSpecies...)
	interstitialCount := append([]int(nil), interstitial.CountPerSpecies...)

	s := &Structure{
		Lattice: lat,
		Occ: Occupation{
			SpeciesIndex:      speciesIndex,
			Site:              siteOcc,
			MetallicCount:     metallicCount,
			InterstitialCount: interstitialCount,
		},
	}

	if shuffle {
		Shuffle(s, r)
	}

	return s, nil
}
