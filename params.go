package fsverity

import (
	"math/bits"

	"github.com/laiyoufafa/third-party-fsverity-utils/hashalgo"
)

// MaxSaltSize is the largest salt this library accepts, matching the
// 32-byte salt slot in the descriptor.
const MaxSaltSize = 32

// Version is the only descriptor version this library understands.
const Version = 1

// Params configures one measurement. It is borrowed for the duration of
// ComputeDigest; nothing retains a reference to it afterward.
type Params struct {
	// Version must be 1.
	Version uint8
	// HashAlgorithm selects an entry from the hashalgo registry.
	HashAlgorithm hashalgo.ID
	// BlockSize must be a power of two, at least twice the chosen
	// algorithm's digest size, and (when Salt is non-empty) a multiple
	// of the algorithm's internal compression block size.
	BlockSize uint32
	// Salt is 0-32 raw bytes; ComputeDigest pads it internally.
	Salt []byte
	// FileSize is the length of the data Read will be asked to supply.
	FileSize uint64
}

func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

func log2(n uint32) uint8 {
	return uint8(bits.TrailingZeros32(n))
}

// validate checks Params in a fixed order, returning the first failure.
// Each failure is both returned as an *Error and logged as one
// diagnostic identifying the offending field.
func (p Params) validate() (hashalgo.Algorithm, *Error) {
	if p.Version != Version {
		return fail(invalidArgf("version", p.Version))
	}
	if !isPowerOfTwo(p.BlockSize) {
		return fail(invalidArgf("block_size", p.BlockSize))
	}
	if len(p.Salt) > MaxSaltSize {
		return fail(invalidArgf("salt_size", len(p.Salt)))
	}
	algo, ok := hashalgo.Lookup(p.HashAlgorithm)
	if !ok {
		return fail(invalidArgf("hash_algorithm", p.HashAlgorithm))
	}
	if p.BlockSize < uint32(2*algo.DigestSize) {
		return fail(invalidArgf("block_size", p.BlockSize))
	}
	if len(p.Salt) > 0 && p.BlockSize%uint32(algo.BlockSize) != 0 {
		return fail(invalidArgf("block_size", p.BlockSize))
	}
	return algo, nil
}

func fail(err *Error) (hashalgo.Algorithm, *Error) {
	logInvalid(err.Field, err.Value)
	return hashalgo.Algorithm{}, err
}
