package fsverity

import (
	"io"

	"github.com/laiyoufafa/third-party-fsverity-utils/hashalgo"
	"github.com/laiyoufafa/third-party-fsverity-utils/merkletree"
)

// ReadFunc supplies the next run of file data for ComputeDigest, filling
// dst entirely on success. Reads occur strictly in increasing offset, each
// for exactly min(block_size, remaining) bytes.
type ReadFunc = merkletree.ReadFunc

// ReaderFunc adapts an already-open io.Reader into a ReadFunc. It does not
// open, size, or close anything -- that plumbing is the caller's
// responsibility -- it only wires the reader into the read-callback
// contract, using io.ReadFull so a short read surfaces as the IoError the
// contract promises rather than a silently truncated block.
func ReaderFunc(r io.Reader) ReadFunc {
	return func(dst []byte) error {
		_, err := io.ReadFull(r, dst)
		return err
	}
}

// Digest is the measurement ComputeDigest produces: the hash of the
// 256-byte descriptor, plus enough metadata to interpret it. Algorithm
// and Size are informative only -- they are not themselves authenticated,
// only Bytes is.
type Digest struct {
	Algorithm hashalgo.ID
	Size      int
	Bytes     []byte
}
