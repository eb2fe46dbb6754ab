package tonwallet

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A cell is the chain's fundamental data node: up to 1023 bits of payload
// plus up to 4 references to other cells. Cells form a DAG by construction
// (a builder can only reference already-built cells), never a cycle.
const (
	maxCellBits = 1023
	maxCellRefs = 4
)

type Cell struct {
	data   []byte
	bitLen int
	refs   []*Cell

	// Prebuilt cells stand in for known contract code: their representation
	// hash and depth are fixed externally and they carry no serializable
	// content. They may be referenced for hashing (address derivation) but
	// not serialized into a container.
	prebuilt bool
	preHash  [32]byte
	preDepth uint16
}

// Prebuilt returns an opaque cell whose hash and depth are pinned. Used for
// compiled contract code that this system only ever hashes.
func Prebuilt(hash [32]byte, depth uint16) *Cell {
	return &Cell{prebuilt: true, preHash: hash, preDepth: depth}
}

func (c *Cell) BitLen() int {
	return c.bitLen
}

func (c *Cell) Refs() []*Cell {
	return c.refs
}

func (c *Cell) depth() uint16 {
	if c.prebuilt {
		return c.preDepth
	}

	var depth uint16
	for _, ref := range c.refs {
		if d := ref.depth(); d >= depth {
			depth = d + 1
		}
	}
	return depth
}

// augmentedData returns the payload padded to a byte boundary with the
// standard completion tag: a single 1 bit followed by zeros, only when the
// bit length is not already byte-aligned.
func (c *Cell) augmentedData() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)

	if c.bitLen%8 != 0 {
		out[c.bitLen/8] |= 0x80 >> (c.bitLen % 8)
	}
	return out
}

func (c *Cell) descriptors() (byte, byte) {
	d1 := byte(len(c.refs))
	d2 := byte(c.bitLen/8 + (c.bitLen+7)/8)
	return d1, d2
}

// Hash is the cryptographic identity of a cell: SHA-256 over its standard
// representation (descriptors, augmented data, child depths, child hashes).
// It is what gets signed for transfers and hashed for address derivation.
func (c *Cell) Hash() [32]byte {
	if c.prebuilt {
		return c.preHash
	}

	d1, d2 := c.descriptors()
	repr := make([]byte, 0, 2+len(c.data)+len(c.refs)*34)
	repr = append(repr, d1, d2)
	repr = append(repr, c.augmentedData()...)
	for _, ref := range c.refs {
		var depth [2]byte
		binary.BigEndian.PutUint16(depth[:], ref.depth())
		repr = append(repr, depth[:]...)
	}
	for _, ref := range c.refs {
		hash := ref.Hash()
		repr = append(repr, hash[:]...)
	}

	return sha256.Sum256(repr)
}

func (c *Cell) containsPrebuilt() bool {
	if c.prebuilt {
		return true
	}
	for _, ref := range c.refs {
		if ref.containsPrebuilt() {
			return true
		}
	}
	return false
}

// Builder assembles one cell. Errors are sticky: the first violation is
// retained and returned by Build, so store calls chain without per-call
// checks.
type Builder struct {
	data   []byte
	bitLen int
	refs   []*Cell
	err    *WalletError
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build() (*Cell, *WalletError) {
	if b.err != nil {
		return nil, b.err
	}

	return &Cell{
		data:   append([]byte(nil), b.data...),
		bitLen: b.bitLen,
		refs:   append([]*Cell(nil), b.refs...),
	}, nil
}

func (b *Builder) StoreBit(set bool) *Builder {
	if b.err != nil {
		return b
	}
	if b.bitLen+1 > maxCellBits {
		b.err = wrapWalletError(CodeCellOverflow, "cell exceeds 1023 bits", nil)
		return b
	}

	b.writeBit(set)
	return b
}

// StoreUint writes the low `bits` bits of value, most significant first.
func (b *Builder) StoreUint(value uint64, bits int) *Builder {
	if b.err != nil {
		return b
	}
	if bits < 0 || bits > 64 {
		b.err = wrapWalletError(CodeCellOverflow, fmt.Sprintf("uint width %d out of range", bits), nil)
		return b
	}
	if bits < 64 && value >= 1<<uint(bits) {
		b.err = wrapWalletError(CodeCellOverflow, fmt.Sprintf("value %d does not fit in %d bits", value, bits), nil)
		return b
	}
	if b.bitLen+bits > maxCellBits {
		b.err = wrapWalletError(CodeCellOverflow, "cell exceeds 1023 bits", nil)
		return b
	}

	for i := bits - 1; i >= 0; i-- {
		b.writeBit(value>>uint(i)&1 == 1)
	}
	return b
}

// StoreZeroes writes a run of clear bits. Unlike StoreUint it is not bound
// to a 64-bit width, so it suits multi-field zero fills.
func (b *Builder) StoreZeroes(bits int) *Builder {
	if b.err != nil {
		return b
	}
	if bits < 0 {
		b.err = wrapWalletError(CodeCellOverflow, fmt.Sprintf("zero fill width %d out of range", bits), nil)
		return b
	}
	if b.bitLen+bits > maxCellBits {
		b.err = wrapWalletError(CodeCellOverflow, "cell exceeds 1023 bits", nil)
		return b
	}

	for i := 0; i < bits; i++ {
		b.writeBit(false)
	}
	return b
}

func (b *Builder) StoreBytes(p []byte) *Builder {
	if b.err != nil {
		return b
	}
	if b.bitLen+len(p)*8 > maxCellBits {
		b.err = wrapWalletError(CodeCellOverflow, "cell exceeds 1023 bits", nil)
		return b
	}

	for _, octet := range p {
		for i := 7; i >= 0; i-- {
			b.writeBit(octet>>uint(i)&1 == 1)
		}
	}
	return b
}

// StoreCoins writes a variable-length unsigned amount: a 4-bit byte-length
// prefix followed by that many big-endian value bytes. Zero encodes as an
// empty value with length 0.
func (b *Builder) StoreCoins(amount int64) *Builder {
	if b.err != nil {
		return b
	}
	if amount < 0 {
		b.err = wrapWalletError(CodeBuildFailed, fmt.Sprintf("coin amount %d is negative", amount), nil)
		return b
	}

	value := uint64(amount)
	byteLen := 0
	for v := value; v > 0; v >>= 8 {
		byteLen++
	}

	b.StoreUint(uint64(byteLen), 4)
	for i := byteLen - 1; i >= 0; i-- {
		b.StoreUint(value>>uint(8*i)&0xff, 8)
	}
	return b
}

var rawAddressPattern = regexp.MustCompile(`^(-?\d+):([0-9a-f]{64})$`)

// StoreAddress writes a standard internal address (addr_std$10, no anycast)
// from its normalized raw form.
func (b *Builder) StoreAddress(raw string) *Builder {
	if b.err != nil {
		return b
	}

	match := rawAddressPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		b.err = wrapWalletError(CodeBuildFailed, fmt.Sprintf("address %q is not normalized raw form", raw), nil)
		return b
	}
	workchain, err := strconv.Atoi(match[1])
	if err != nil || workchain < -128 || workchain > 127 {
		b.err = wrapWalletError(CodeBuildFailed, fmt.Sprintf("address workchain %q out of range", match[1]), nil)
		return b
	}
	hash, err := hex.DecodeString(match[2])
	if err != nil {
		b.err = wrapWalletError(CodeBuildFailed, "address hash is not valid hex", err)
		return b
	}

	b.StoreUint(0b10, 2)              // addr_std$10
	b.StoreBit(false)                 // anycast: nothing
	b.StoreUint(uint64(byte(int8(workchain))), 8) // workchain_id, signed octet
	b.StoreBytes(hash)                // account hash, 256 bits
	return b
}

// StoreAddressNone writes the two-bit empty address (addr_none$00).
func (b *Builder) StoreAddressNone() *Builder {
	return b.StoreUint(0b00, 2)
}

func (b *Builder) StoreRef(child *Cell) *Builder {
	if b.err != nil {
		return b
	}
	if child == nil {
		b.err = wrapWalletError(CodeBuildFailed, "cell reference is nil", nil)
		return b
	}
	if len(b.refs) >= maxCellRefs {
		b.err = wrapWalletError(CodeCellOverflow, "cell exceeds 4 references", nil)
		return b
	}

	b.refs = append(b.refs, child)
	return b
}

func (b *Builder) writeBit(set bool) {
	if b.bitLen%8 == 0 {
		b.data = append(b.data, 0)
	}
	if set {
		b.data[b.bitLen/8] |= 0x80 >> (b.bitLen % 8)
	}
	b.bitLen++
}
