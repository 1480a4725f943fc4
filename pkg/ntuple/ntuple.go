// Package ntuple implements the n-tuple network value function: 8-way
// board isomorphism, per-pattern weight tables, TD estimate/update, and
// binary load/save.
package ntuple

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/twofortyeight/engine/pkg/board"
)

// numSymmetries is the 8-way isomorphism: 4 rotations x {identity, mirror}.
const numSymmetries = 8

// indexBoard is the canonical index board 0xFEDCBA9876543210: the value at
// each nibble position equals the position index itself, used to derive
// the isomorphic position mappings once per pattern.
const indexBoard board.State = 0xFEDCBA9876543210

// transformMirror exchanges columns (horizontal mirror).
func transformMirror(s board.State) board.State {
	var out board.State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			srcPos := r*4 + (3 - c)
			dstPos := r*4 + c
			tile := board.State((s >> (srcPos * 4)) & 0xF)
			out |= tile << (dstPos * 4)
		}
	}
	return out
}

// transformRotateClockwise rotates the index board 90 degrees clockwise:
// transpose then mirror.
func transformRotateClockwise(s board.State) board.State {
	return transformMirror(board.Transpose(s))
}

// symmetricIndexBoards returns the 8 symmetric views of indexBoard: 4
// successive clockwise rotations of the identity, then 4 successive
// clockwise rotations of the mirror.
func symmetricIndexBoards() [numSymmetries]board.State {
	var out [numSymmetries]board.State

	idx := indexBoard
	for i := 0; i < 4; i++ {
		out[i] = idx
		idx = transformRotateClockwise(idx)
	}

	idx = transformMirror(indexBoard)
	for i := 4; i < 8; i++ {
		out[i] = idx
		idx = transformRotateClockwise(idx)
	}
	return out
}

func nibbleAt(s board.State, pos int) int {
	return int((s >> (pos * 4)) & 0xF)
}

// Pattern is a fixed ordered set of board positions whose joint nibble
// values key a lookup into a weight table of size 16^len(positions).
type Pattern struct {
	positions []int
	iso       [numSymmetries][]int
	weights   []float32
}

// NewPattern builds a Pattern over the given positions (0..15 each),
// deriving its 8-way isomorphism index from the canonical index board.
func NewPattern(positions []int) *Pattern {
	p := &Pattern{
		positions: append([]int(nil), positions...),
		weights:   make([]float32, tableSize(len(positions))),
	}

	sym := symmetricIndexBoards()
	for i := 0; i < numSymmetries; i++ {
		row := make([]int, len(positions))
		for j, pos := range positions {
			row[j] = nibbleAt(sym[i], pos)
		}
		p.iso[i] = row
	}
	return p
}

func tableSize(k int) int {
	n := 1
	for i := 0; i < k; i++ {
		n *= 16
	}
	return n
}

// indexOf packs the nibbles read at the given isomorphic row into a
// base-16 little-endian index.
func (p *Pattern) indexOf(row []int, s board.State) int {
	idx := 0
	for j, pos := range row {
		idx |= nibbleAt(s, pos) << (4 * j)
	}
	return idx
}

// Estimate returns the sum of weights over all 8 isomorphic lookups.
func (p *Pattern) Estimate(s board.State) float64 {
	var v float64
	for i := 0; i < numSymmetries; i++ {
		v += float64(p.weights[p.indexOf(p.iso[i], s)])
	}
	return v
}

// Update distributes adjust evenly over the 8 isomorphic lookups and
// returns the pattern's new estimate. Races on individual weight cells
// during Hogwild-parallel training are tolerated by design.
func (p *Pattern) Update(s board.State, adjust float64) float64 {
	a := float32(adjust / numSymmetries)

	var v float64
	for i := 0; i < numSymmetries; i++ {
		idx := p.indexOf(p.iso[i], s)
		p.weights[idx] += a
		v += float64(p.weights[idx])
	}
	return v
}

func (p *Pattern) save(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(p.positions))); err != nil {
		return err
	}
	for _, pos := range p.positions {
		if err := binary.Write(w, binary.LittleEndian, int32(pos)); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, p.weights)
}

// load reads a pattern's weights from r, refusing (silently leaving the
// receiver untouched beyond what has already been consumed from r) if the
// stored pattern length differs from the receiver's shape -- the n-tuple
// loader's documented contract.
func (p *Pattern) load(r io.Reader) error {
	var storedLen uint64
	if err := binary.Read(r, binary.LittleEndian, &storedLen); err != nil {
		return err
	}
	if int(storedLen) != len(p.positions) {
		return errShapeMismatch
	}
	positions := make([]int32, storedLen)
	if err := binary.Read(r, binary.LittleEndian, &positions); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, &p.weights)
}

var errShapeMismatch = io.ErrUnexpectedEOF

// Network is an ordered collection of patterns; patterns share no state
// beyond the common State input. The default network is four 6-tuples
// covering canonical overlapping board regions.
type Network struct {
	patterns []*Pattern
}

// NewDefaultNetwork builds the default four 6-tuple network from
// the default pattern set.
func NewDefaultNetwork() *Network {
	return &Network{patterns: []*Pattern{
		NewPattern([]int{0, 1, 2, 3, 4, 5}),
		NewPattern([]int{4, 5, 6, 7, 8, 9}),
		NewPattern([]int{0, 1, 2, 4, 5, 6}),
		NewPattern([]int{4, 5, 6, 8, 9, 10}),
	}}
}

// NewNetwork builds a network from explicit pattern position sets, for
// tests that need a small/fast network.
func NewNetwork(patternPositions [][]int) *Network {
	n := &Network{}
	for _, pos := range patternPositions {
		n.patterns = append(n.patterns, NewPattern(pos))
	}
	return n
}

// Estimate returns the sum of every pattern's estimate for s. By
// construction this is invariant under the 8 symmetries of the board:
// each pattern already sums over all 8 isomorphic readings of s, so
// applying a symmetry to s only permutes which readings land on which
// table cells, not their sum.
func (n *Network) Estimate(s board.State) float64 {
	var v float64
	for _, p := range n.patterns {
		v += p.Estimate(s)
	}
	return v
}

// Update distributes adjust evenly across patterns and returns the new
// network estimate.
func (n *Network) Update(s board.State, adjust float64) float64 {
	a := adjust / float64(len(n.patterns))

	var v float64
	for _, p := range n.patterns {
		v += p.Update(s, a)
	}
	return v
}

// Save writes the network to path as little-endian binary: patternCount,
// then per pattern (patternLen, positions, weights).
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(n.patterns))); err != nil {
		return err
	}
	for _, p := range n.patterns {
		if err := p.save(w); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads a network file into the receiver's existing pattern shapes.
// If the stored pattern count or any pattern length mismatches, the load
// is silently refused: the receiver is left as constructed and the error
// is returned for the caller to log. Callers are expected to validate
// shape before relying on a loaded network.
func (n *Network) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	if int(count) != len(n.patterns) {
		return errShapeMismatch
	}
	// Read every pattern into staging tables first, so a mismatch or read
	// error in a later pattern leaves earlier patterns untouched.
	staged := make([]*Pattern, len(n.patterns))
	for i, p := range n.patterns {
		tmp := &Pattern{positions: p.positions, weights: make([]float32, len(p.weights))}
		if err := tmp.load(r); err != nil {
			return err
		}
		staged[i] = tmp
	}
	for i, p := range n.patterns {
		copy(p.weights, staged[i].weights)
	}
	return nil
}

// Size returns the total number of float32 weight cells across every
// pattern (the default network: 4 * 16^6 ~= 64 MiB each).
func (n *Network) Size() int {
	var total int
	for _, p := range n.patterns {
		total += len(p.weights)
	}
	return total
}

// String reports the network's pattern count and approximate in-memory
// weight footprint, for diagnostic logging.
func (n *Network) String() string {
	return fmt.Sprintf("ntuple.Network{patterns=%d, weights=%.1fMiB}", len(n.patterns), float64(n.Size()*4)/(1<<20))
}
