package statecodec

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Policy controls how filter bit strings of the wrong length are handled.
type Policy string

const (
	// PolicyReject refuses filter state whose length differs from the
	// current checkbox count.
	PolicyReject Policy = "reject"
	// PolicyLenient assigns bits positionally, dropping extra bits and
	// leaving missing ones unchecked.
	PolicyLenient Policy = "lenient"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyReject || p == PolicyLenient
}

// IndexWidth returns the number of bits used for one positional index into a
// registry of the given size: the binary length of size-1, at least 1.
func IndexWidth(size int) int {
	if size <= 1 {
		return 1
	}
	return bits.Len(uint(size - 1))
}

// EncodeFilters emits one bit per checkbox, in enumeration order.
func EncodeFilters(flags []bool) string {
	var b strings.Builder
	b.Grow(len(flags))
	for _, on := range flags {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// DecodeFilters converts a bit string back into checkbox states for a filter
// set of length want.
func DecodeFilters(bitString string, want int, policy Policy) ([]bool, error) {
	if err := validateBits(bitString); err != nil {
		return nil, err
	}
	if len(bitString) != want && policy != PolicyLenient {
		return nil, fmt.Errorf("%w: %d filter bits, expected %d", ErrStaleReference, len(bitString), want)
	}

	flags := make([]bool, want)
	for i := 0; i < want && i < len(bitString); i++ {
		flags[i] = bitString[i] == '1'
	}
	return flags, nil
}

// EncodeIndices renders each index as a fixed-width, zero-padded binary
// chunk sized for a registry of the given size.
func EncodeIndices(indices []int, size int) (string, error) {
	width := IndexWidth(size)
	var b strings.Builder
	b.Grow(width * len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			return "", fmt.Errorf("%w: index %d outside registry of %d items", ErrStaleReference, idx, size)
		}
		chunk := strconv.FormatInt(int64(idx), 2)
		b.WriteString(strings.Repeat("0", width-len(chunk)))
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// DecodeIndices splits a bit string into fixed-width chunks and returns the
// raw positional indices. Range checking against the registry is left to the
// caller so a partially stale list can still be applied.
func DecodeIndices(bitString string, size int) ([]int, error) {
	if err := validateBits(bitString); err != nil {
		return nil, err
	}
	width := IndexWidth(size)
	if len(bitString)%width != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a multiple of index width %d", ErrStaleReference, len(bitString), width)
	}

	indices := make([]int, 0, len(bitString)/width)
	for i := 0; i < len(bitString); i += width {
		n, err := strconv.ParseUint(bitString[i:i+width], 2, 63)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBits, err)
		}
		indices = append(indices, int(n))
	}
	return indices, nil
}

// EncodeRandom encodes an optional random pick. It returns an empty string
// when there is no pick.
func EncodeRandom(index int, ok bool, size int) (string, error) {
	if !ok {
		return "", nil
	}
	return EncodeIndices([]int{index}, size)
}

// DecodeRandom decodes exactly one index chunk and checks it against the
// registry size.
func DecodeRandom(bitString string, size int) (int, error) {
	indices, err := DecodeIndices(bitString, size)
	if err != nil {
		return 0, err
	}
	if len(indices) != 1 {
		return 0, fmt.Errorf("%w: random pick holds %d indices", ErrStaleReference, len(indices))
	}
	if indices[0] >= size {
		return 0, fmt.Errorf("%w: index %d outside registry of %d items", ErrStaleReference, indices[0], size)
	}
	return indices[0], nil
}
