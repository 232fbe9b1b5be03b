package statecodec

import (
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the base62 digit set. Index 0 is 'A'.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var base = big.NewInt(int64(len(Alphabet)))

// EncodeBits interprets bits as an unsigned big-endian binary integer and
// renders it in base62, most significant digit first. An empty or all-zero
// bit string encodes to "A".
func EncodeBits(bits string) (string, error) {
	if err := validateBits(bits); err != nil {
		return "", err
	}

	n := new(big.Int)
	if bits != "" {
		n.SetString(bits, 2)
	}
	if n.Sign() == 0 {
		return Alphabet[:1], nil
	}

	var digits []byte
	rem := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, rem)
		digits = append(digits, Alphabet[rem.Int64()])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits), nil
}

// DecodeBits parses a base62 string and returns the natural binary rendering
// of its value. Leading zero bits of the original input are not recoverable;
// use Wrap/Unwrap when the length matters.
func DecodeBits(encoded string) (string, error) {
	if encoded == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidEncoding)
	}

	n := new(big.Int)
	digit := new(big.Int)
	for i := 0; i < len(encoded); i++ {
		idx := strings.IndexByte(Alphabet, encoded[i])
		if idx < 0 {
			return "", fmt.Errorf("%w: unexpected character %q at offset %d", ErrInvalidEncoding, encoded[i], i)
		}
		n.Mul(n, base)
		n.Add(n, digit.SetInt64(int64(idx)))
	}
	return n.Text(2), nil
}

// Wrap prefixes bits with a guard bit and base62-encodes the result so that
// Unwrap can restore the exact bit length.
func Wrap(bits string) (string, error) {
	if err := validateBits(bits); err != nil {
		return "", err
	}
	return EncodeBits("1" + bits)
}

// Unwrap reverses Wrap: it decodes the value and strips exactly one leading
// guard bit.
func Unwrap(encoded string) (string, error) {
	bits, err := DecodeBits(encoded)
	if err != nil {
		return "", err
	}
	if bits[0] != '1' {
		return "", fmt.Errorf("%w: missing guard bit", ErrInvalidEncoding)
	}
	return bits[1:], nil
}

func validateBits(bits string) error {
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return fmt.Errorf("%w: unexpected character %q at offset %d", ErrInvalidBits, bits[i], i)
		}
	}
	return nil
}
