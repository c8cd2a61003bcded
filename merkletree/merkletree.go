// Package merkletree implements the fs-verity Merkle tree construction: a
// stack of fixed-size per-level buffers that data blocks are streamed
// through, each one emitting a salted hash upward as it saturates, until a
// single root hash remains.
//
// The buffer stack is carried over from an older streaming accumulator
// design (a slice of per-level state folded upward as each level fills,
// "peaks" collapsing into their parent) but reshaped around fs-verity's
// fixed, precomputed level count rather than an open-ended chunk/outer
// scheme: here num_levels is known before the first byte is read, and the
// stack is exactly that many interior levels plus one data-staging slot
// below and one root sink above.
package merkletree

import (
	"fmt"

	"github.com/laiyoufafa/third-party-fsverity-utils/hashalgo"
)

// MaxLevels bounds the interior tree depth. A file would need to exceed
// roughly 2^(MaxLevels * log2(hashesPerBlock)) blocks to overflow this,
// which is far beyond any real file size; it exists as a sizing guard
// rather than a practical limit.
const MaxLevels = 64

// ReadFunc supplies the next run of file data. It must fill dst entirely
// on success. Go callers close over whatever state they need (an open
// file, a running offset) rather than threading an opaque context
// parameter through the call, the same way an io.Reader implementation
// captures its own state.
type ReadFunc func(dst []byte) error

// ReadError wraps a failure returned by a caller's ReadFunc, distinct
// from the sizing errors Build and NumLevels return so callers can tell
// an I/O failure apart from a bad parameter.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("merkletree: error reading file: %v", e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// level is one entry in the buffer stack: level -1 is data staging, levels
// 0..numLevels-1 are interior tree levels, and level numLevels is the root
// sink. data is zero-padded up to its capacity before being hashed.
type level struct {
	data   []byte
	filled int
}

// Params bundles everything the builder needs to stream a file through
// the tree. Salt must already be the caller's raw salt bytes (not yet
// padded); Build pads it internally to the algorithm's block size.
type Params struct {
	Read      ReadFunc
	FileSize  uint64
	Algo      hashalgo.Algorithm
	Ctx       *hashalgo.Context
	BlockSize uint32
	Salt      []byte
}

// NumLevels returns the number of interior tree levels Build would use for
// the given file size, block size, and digest size, or an error if that
// count would exceed MaxLevels. It's exported so callers can check sizing
// on their own; Build itself calls it before allocating any buffers or
// reading any data.
func NumLevels(fileSize uint64, blockSize uint32, digestSize int) (int, error) {
	hashesPerBlock := uint64(blockSize) / uint64(digestSize)
	blocks := ceilDiv(fileSize, uint64(blockSize))
	levels := 0
	for blocks > 1 {
		blocks = ceilDiv(blocks, hashesPerBlock)
		levels++
		if levels > MaxLevels {
			return 0, fmt.Errorf("merkletree: tree depth exceeds %d levels for file size %d with block size %d", MaxLevels, fileSize, blockSize)
		}
	}
	return levels, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// Build streams the file through the tree and writes the root hash into
// root, which must be exactly digest-size bytes (the composer passes the
// root_hash slot of its descriptor directly, so the write lands in place
// with no extra copy). For an empty file, root is filled with digest-size
// zero bytes and Read is never called.
func Build(p Params, root []byte) error {
	digestSize := p.Ctx.DigestSize()
	if len(root) != digestSize {
		return fmt.Errorf("merkletree: root buffer is %d bytes, want %d", len(root), digestSize)
	}

	if p.FileSize == 0 {
		for i := range root {
			root[i] = 0
		}
		return nil
	}

	numLevels, err := NumLevels(p.FileSize, p.BlockSize, digestSize)
	if err != nil {
		return err
	}

	paddedSalt := padSalt(p.Salt, p.Algo.BlockSize)
	blockSize := int(p.BlockSize)

	// buffers[0] is the data staging slot (spec level -1); buffers[i] for
	// 1 <= i <= numLevels is interior spec level i-1; buffers[numLevels+1]
	// is the root sink, aliased directly onto the caller's output slice.
	buffers := make([]*level, numLevels+2)
	buffers[0] = &level{data: make([]byte, blockSize)}
	for i := 1; i <= numLevels; i++ {
		buffers[i] = &level{data: make([]byte, blockSize)}
	}
	buffers[numLevels+1] = &level{data: root}

	// hashOneBlock consumes buffers[specLevel+1], zero-padding it out to
	// blockSize, hashes padded-salt||data, and appends the digest to the
	// next level up. It reports whether that next level's buffer is now
	// so full that another digest-sized write wouldn't fit -- the signal
	// that it, too, must be hashed upward. The fullness check always
	// compares against the configured block size, even when the "next"
	// buffer is the root sink (whose real capacity is just digestSize):
	// since block_size >= 2*digest_size is enforced by the caller, a
	// single digest landing in the root can never trip that check, so
	// the root is correctly never treated as needing further hashing.
	hashOneBlock := func(specLevel int) bool {
		buf := buffers[specLevel+1]
		for i := buf.filled; i < len(buf.data); i++ {
			buf.data[i] = 0
		}

		p.Ctx.Init()
		if len(paddedSalt) > 0 {
			p.Ctx.Update(paddedSalt)
		}
		p.Ctx.Update(buf.data)

		sum := make([]byte, digestSize)
		p.Ctx.Final(sum)

		next := buffers[specLevel+2]
		copy(next.data[next.filled:next.filled+digestSize], sum)
		next.filled += digestSize
		buf.filled = 0

		return next.filled+digestSize > blockSize
	}

	for offset := uint64(0); offset < p.FileSize; offset += uint64(blockSize) {
		n := p.FileSize - offset
		if n > uint64(blockSize) {
			n = uint64(blockSize)
		}
		if err := p.Read(buffers[0].data[:n]); err != nil {
			return &ReadError{Err: err}
		}
		buffers[0].filled = int(n)

		lvl := -1
		for hashOneBlock(lvl) {
			lvl++
			if lvl >= numLevels {
				return fmt.Errorf("merkletree: internal error: tree overflowed precomputed depth %d", numLevels)
			}
		}
	}

	for lvl := 0; lvl < numLevels; lvl++ {
		if buffers[lvl+1].filled > 0 {
			hashOneBlock(lvl)
		}
	}

	if buffers[numLevels+1].filled != digestSize {
		return fmt.Errorf("merkletree: internal error: root sink holds %d bytes, want %d", buffers[numLevels+1].filled, digestSize)
	}
	return nil
}

// padSalt zero-extends salt to a multiple of blockSize. A zero-length
// salt yields a nil result rather than a zero-length allocation: the
// salt-prefix update becomes a no-op instead of an empty Write call some
// hashers might not like.
func padSalt(salt []byte, blockSize int) []byte {
	if len(salt) == 0 {
		return nil
	}
	padded := int(ceilDiv(uint64(len(salt)), uint64(blockSize))) * blockSize
	out := make([]byte, padded)
	copy(out, salt)
	return out
}
