package bip32

import (
	"fmt"
	"strconv"
	"strings"
)

// HardenedBit is OR'd into a child index to request hardened derivation.
const HardenedBit uint32 = 0x80000000

// KeyPath is one step in a derivation path such as m/44'/133'/0'.  It is
// immutable; a child path shares its parent rather than copying it.
//
// The zero value is not meaningful, use Root, NewPath or ParsePath.
type KeyPath struct {
	index  uint32
	parent *KeyPath
	length int
}

// Root is the "m" path of the master key.  It has no index and no parent.
var Root = &KeyPath{}

// NewPath returns the path reached by appending each of the given indices to
// Root in order.
func NewPath(indices ...uint32) *KeyPath {
	p := Root
	for _, index := range indices {
		p = p.Append(index)
	}
	return p
}

// Append returns a new path one level deeper than p with the given index,
// including HardenedBit when the step is hardened.
func (p *KeyPath) Append(index uint32) *KeyPath {
	return &KeyPath{
		index:  index,
		parent: p,
		length: p.length + 1,
	}
}

// Index returns the index of the last step in the path.  It is 0 for Root.
func (p *KeyPath) Index() uint32 {
	return p.index
}

// Parent returns the path one level up, or nil for Root.
func (p *KeyPath) Parent() *KeyPath {
	return p.parent
}

// Len returns the number of derivation steps in the path.  Root has length 0.
func (p *KeyPath) Len() int {
	return p.length
}

// IsRoot returns whether p is the master key path.
func (p *KeyPath) IsRoot() bool {
	return p.parent == nil
}

// IsHardened returns whether the last step of the path is hardened.
func (p *KeyPath) IsHardened() bool {
	return p.index&HardenedBit != 0
}

// At returns the index at the given level, where level 1 is the first step
// after m.
func (p *KeyPath) At(level int) (uint32, error) {
	if level < 1 || level > p.length {
		str := fmt.Sprintf("level %d is outside path %v of length %d",
			level, p, p.length)
		return 0, makeError(ErrPathOutOfRange, str)
	}

	for n := p; ; n = n.parent {
		if n.length == level {
			return n.index, nil
		}
	}
}

// Indices returns the indices of the path, first step first.
func (p *KeyPath) Indices() []uint32 {
	indices := make([]uint32, p.length)
	for n := p; n.parent != nil; n = n.parent {
		indices[n.length-1] = n.index
	}
	return indices
}

// Truncate returns the ancestor of p (or p itself) that has the requested
// length.
func (p *KeyPath) Truncate(length int) (*KeyPath, error) {
	if length < 0 || length > p.length {
		str := fmt.Sprintf("cannot truncate path %v of length %d to "+
			"length %d", p, p.length, length)
		return nil, makeError(ErrPathOutOfRange, str)
	}

	n := p
	for n.length > length {
		n = n.parent
	}
	return n, nil
}

// String returns the path in the standard m/0/1'/2 notation.
func (p *KeyPath) String() string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, index := range p.Indices() {
		sb.WriteByte('/')
		sb.WriteString(strconv.FormatUint(uint64(index&^HardenedBit), 10))
		if index&HardenedBit != 0 {
			sb.WriteByte('\'')
		}
	}
	return sb.String()
}

// Equal reports whether both paths describe the same sequence of indices.
func (p *KeyPath) Equal(other *KeyPath) bool {
	return Compare(p, other) == 0
}

// Less reports whether p sorts before other.  See Compare.
func (p *KeyPath) Less(other *KeyPath) bool {
	return Compare(p, other) < 0
}

// Compare orders two paths level by level.  At each level the indices are
// compared without their hardened bit, and on a tie the hardened index sorts
// first.  When every shared level is equal the shorter path sorts first.  The
// result is -1, 0 or +1.
func Compare(a, b *KeyPath) int {
	ai, bi := a.Indices(), b.Indices()
	for i := 0; i < len(ai) && i < len(bi); i++ {
		if c := compareIndex(ai[i], bi[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(ai) < len(bi):
		return -1
	case len(ai) > len(bi):
		return 1
	}
	return 0
}

func compareIndex(a, b uint32) int {
	an, bn := a&^HardenedBit, b&^HardenedBit
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}

	ah, bh := a&HardenedBit != 0, b&HardenedBit != 0
	switch {
	case ah == bh:
		return 0
	case ah:
		return -1
	}
	return 1
}

// ParsePath parses an m/1/2'/3 style derivation path.
func ParsePath(path string) (*KeyPath, error) {
	result, ok := TryParsePath(path)
	if !ok {
		str := fmt.Sprintf("invalid key derivation path %q", path)
		return nil, makeError(ErrInvalidKeyPath, str)
	}
	return result, nil
}

// TryParsePath parses an m/1/2'/3 style derivation path and reports whether
// it succeeded.  On failure the returned path may be non-nil, holding the
// steps that parsed before the bad segment; only the boolean is authoritative.
func TryParsePath(path string) (*KeyPath, bool) {
	if len(path) == 0 || path[0] != 'm' {
		return nil, false
	}

	result := Root
	rest := path[1:]
	for len(rest) > 0 {
		if rest[0] != '/' {
			return result, false
		}
		rest = rest[1:]

		segment := rest
		if next := strings.IndexByte(rest, '/'); next >= 0 {
			segment, rest = rest[:next], rest[next:]
		} else {
			rest = ""
		}

		index, ok := parseIndex(segment)
		if !ok {
			return result, false
		}
		result = result.Append(index)
	}

	return result, true
}

// parseIndex parses one path segment.  Only canonical decimal is accepted so
// that formatting a parsed path reproduces the input exactly.
func parseIndex(segment string) (uint32, bool) {
	hardened := strings.HasSuffix(segment, "'")
	if hardened {
		segment = segment[:len(segment)-1]
	}

	if len(segment) == 0 || (len(segment) > 1 && segment[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseUint(segment, 10, 32)
	if err != nil || uint32(n)&HardenedBit != 0 {
		return 0, false
	}

	index := uint32(n)
	if hardened {
		index |= HardenedBit
	}
	return index, true
}
