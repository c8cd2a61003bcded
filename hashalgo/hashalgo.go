// Package hashalgo is the fs-verity hash algorithm registry. It pairs a
// numeric algorithm id (the same ids the kernel's fs-verity descriptor
// carries on disk) with a digest size, an internal compression block size,
// and a factory for a fresh hash.Hash. Modeled on the standard library's
// crypto.RegisterHash/crypto.Hash pairing: a small immutable table keyed by
// id, populated once at init time, with no runtime registration API.
package hashalgo

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/gtank/blake2/blake2b"
	"github.com/gtank/blake2s"
)

// ID identifies a hash algorithm the way the fs-verity descriptor does: a
// single byte on disk.
type ID uint8

// Algorithm ids. SHA256 and SHA512 are the real fs-verity on-disk values
// and must never change. Blake2b256 and Blake2s256 are an extension this
// library adds for callers that don't need kernel interoperability (a
// signing tool or content store built on top of this package); they live
// outside the ids the kernel currently understands.
const (
	SHA256     ID = 1
	SHA512     ID = 2
	Blake2b256 ID = 3
	Blake2s256 ID = 4
)

// Algorithm describes one entry in the registry.
type Algorithm struct {
	ID ID
	// Name is used only in diagnostics; it has no bearing on the digest.
	Name string
	// DigestSize is the number of bytes New().Sum produces.
	DigestSize int
	// BlockSize is the primitive's internal compression block size, used
	// to round up the salt before it is prefixed onto every hashed block.
	BlockSize int
	// New returns a fresh, ready-to-use hasher.
	New func() hash.Hash
}

var registry = map[ID]Algorithm{}

func register(a Algorithm) {
	registry[a.ID] = a
}

func init() {
	register(Algorithm{
		ID:         SHA256,
		Name:       "sha256",
		DigestSize: sha256.Size,
		BlockSize:  sha256.BlockSize,
		New:        sha256.New,
	})
	register(Algorithm{
		ID:         SHA512,
		Name:       "sha512",
		DigestSize: sha512.Size,
		BlockSize:  sha512.BlockSize,
		New:        sha512.New,
	})
	register(Algorithm{
		ID:         Blake2b256,
		Name:       "blake2b-256",
		DigestSize: 32,
		BlockSize:  blake2b.BlockSize,
		New: func() hash.Hash {
			d, err := blake2b.NewDigest(nil, nil, nil, 32)
			if err != nil {
				// Only possible if the constant arguments above are
				// wrong; never triggered by caller input.
				panic(fmt.Sprintf("hashalgo: blake2b-256 init: %v", err))
			}
			return d
		},
	})
	register(Algorithm{
		ID:         Blake2s256,
		Name:       "blake2s-256",
		DigestSize: 32,
		BlockSize:  blake2s.BlockBytes,
		New: func() hash.Hash {
			d, err := blake2s.NewDigest(nil, nil, nil, 32)
			if err != nil {
				panic(fmt.Sprintf("hashalgo: blake2s-256 init: %v", err))
			}
			return d
		},
	})
}

// Lookup resolves id in the registry. The zero value and false are
// returned for an unknown id; callers turn that into their own
// InvalidArgument diagnostic rather than a package-level error type, since
// the identifying detail (which field, which value) belongs to the caller.
func Lookup(id ID) (Algorithm, bool) {
	a, ok := registry[id]
	return a, ok
}

// Context is a single-linear-use incremental hasher: Init resets state,
// Update may be called any number of times, and Final writes exactly
// DigestSize bytes into the caller's buffer. It exists because hash.Hash's
// Sum appends to a slice rather than writing into a fixed caller-owned
// region, and the measurement composer needs to write the root hash
// in place inside a descriptor it already allocated.
type Context struct {
	algo Algorithm
	h    hash.Hash
}

// NewContext creates a Context for algo, ready for use without a separate
// Init call.
func NewContext(algo Algorithm) *Context {
	return &Context{algo: algo, h: algo.New()}
}

// DigestSize reports the number of bytes Final writes.
func (c *Context) DigestSize() int { return c.algo.DigestSize }

// Init resets the context so it can be reused for another digest.
func (c *Context) Init() { c.h.Reset() }

// Update feeds more data into the running digest.
func (c *Context) Update(p []byte) { c.h.Write(p) }

// Final writes exactly DigestSize bytes into out[:DigestSize] and leaves
// the context unusable until the next Init.
func (c *Context) Final(out []byte) {
	sum := c.h.Sum(nil)
	copy(out[:len(sum)], sum)
}

// HashFull is equivalent to Init(); Update(data); Final(out).
func (c *Context) HashFull(data, out []byte) {
	c.Init()
	c.Update(data)
	c.Final(out)
}
