package fsverity

import "encoding/binary"

// descriptorSize is the fixed, bit-exact size of the structure the
// measurement hashes. No signature trailer ever appears in it: sig_size
// is always zero in the bytes actually hashed, even when an out-of-band
// signer later appends a real signature elsewhere.
const descriptorSize = 256

const (
	offVersion       = 0
	offHashAlgorithm = 1
	offLogBlockSize  = 2
	offSaltSize      = 3
	offSigSize       = 4
	offDataSize      = 8
	offRootHash      = 16
	rootHashSlotLen  = 64
	offSalt          = 80
	saltSlotLen      = 32
	offReserved      = 112
	reservedLen      = 144
)

// descriptor is the 256-byte, little-endian structure whose hash is the
// fs-verity measurement. Fields are laid out exactly as specified; the
// root hash region is left zero until the builder writes into it in
// place, and the reserved region is simply never touched.
type descriptor [descriptorSize]byte

func newDescriptor(version, hashAlgorithm, logBlockSize, saltSize uint8, dataSize uint64, salt []byte) *descriptor {
	var d descriptor
	d[offVersion] = version
	d[offHashAlgorithm] = hashAlgorithm
	d[offLogBlockSize] = logBlockSize
	d[offSaltSize] = saltSize
	// sig_size (offSigSize, 4 bytes) stays zero: this library never signs.
	binary.LittleEndian.PutUint64(d[offDataSize:offDataSize+8], dataSize)
	copy(d[offSalt:offSalt+saltSlotLen], salt)
	// root_hash and reserved stay zero until the builder fills root_hash.
	return &d
}

// rootHashSlot returns the digestSize-byte prefix of the root_hash region
// the builder writes its root hash into. The remaining bytes of the
// 64-byte region (right-padded with zero) are left untouched.
func (d *descriptor) rootHashSlot(digestSize int) []byte {
	return d[offRootHash : offRootHash+digestSize]
}

func (d *descriptor) bytes() []byte {
	return d[:]
}
