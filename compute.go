// Package fsverity computes the fs-verity measurement of a file: a
// Merkle-tree digest over fixed-size blocks, bound into a fixed 256-byte
// descriptor and hashed once more to yield the measurement the kernel's
// verification path, a signing tool, or a policy engine can check a
// file's contents against -- without ever materializing the tree itself.
//
// This package is compute-only: it never opens a file (callers supply a
// ReadFunc), never verifies an existing measurement, and never persists a
// tree across calls. See merkletree for the tree construction and
// hashalgo for the registry of hash algorithms it builds on.
package fsverity

import (
	"errors"

	"github.com/laiyoufafa/third-party-fsverity-utils/hashalgo"
	"github.com/laiyoufafa/third-party-fsverity-utils/merkletree"
)

// ComputeDigest validates params, builds the fixed-layout descriptor,
// drives the Merkle tree builder to fill in its root hash, and hashes the
// descriptor to produce the measurement.
//
// Validation happens in a fixed order so that the first invalid field
// always produces the same diagnostic: version, block size, salt size,
// hash algorithm, then the block-size/digest-size and
// block-size/salt-alignment invariants that depend on which algorithm was
// chosen. Every failure is returned as *Error and logged once.
func ComputeDigest(read ReadFunc, params Params) (*Digest, error) {
	if read == nil {
		return nil, fail1(invalidArgf("read", nil))
	}

	algo, verr := params.validate()
	if verr != nil {
		return nil, verr
	}

	ctx := hashalgo.NewContext(algo)

	logBlockSize := log2(params.BlockSize)
	desc := newDescriptor(params.Version, uint8(params.HashAlgorithm), logBlockSize, uint8(len(params.Salt)), params.FileSize, params.Salt)

	root := desc.rootHashSlot(algo.DigestSize)
	buildErr := merkletree.Build(merkletree.Params{
		Read:      read,
		FileSize:  params.FileSize,
		Algo:      algo,
		Ctx:       ctx,
		BlockSize: params.BlockSize,
		Salt:      params.Salt,
	}, root)
	if buildErr != nil {
		return nil, classifyBuildError(buildErr)
	}

	digestBytes := make([]byte, algo.DigestSize)
	ctx.HashFull(desc.bytes(), digestBytes)

	return &Digest{
		Algorithm: params.HashAlgorithm,
		Size:      algo.DigestSize,
		Bytes:     digestBytes,
	}, nil
}

func fail1(err *Error) *Error {
	logInvalid(err.Field, err.Value)
	return err
}

// classifyBuildError maps a merkletree.Build failure onto the taxonomy
// ComputeDigest promises its callers. Build fails either because the
// caller's ReadFunc returned an error (wrapped in *merkletree.ReadError)
// or because of a sizing error: a tree depth beyond merkletree.MaxLevels,
// which Build checks through NumLevels before reading anything, or an
// internal sizing postcondition that should be unreachable.
func classifyBuildError(err error) *Error {
	var rerr *merkletree.ReadError
	if errors.As(err, &rerr) {
		e := ioError(rerr.Err)
		getLogger().WithError(e).Error("fsverity: read failed while building tree")
		return e
	}
	e := invalidArgf("merkletree", err.Error())
	getLogger().WithError(e).Error("fsverity: internal error building tree")
	return e
}
