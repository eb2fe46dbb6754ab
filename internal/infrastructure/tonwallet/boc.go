package tonwallet

import (
	"encoding/binary"
	"hash/crc32"
	"sort"
)

// bocMagic is the serialized bag-of-cells prefix with the CRC32-C trailer
// flag variant.
const bocMagic = 0xb5ee9c72

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// SerializeBOC packs a single-root cell tree into the standard bag-of-cells
// wire format: magic, size descriptors, root list, cells in an order where
// every parent precedes its children, and a little-endian CRC32-C trailer.
func SerializeBOC(root *Cell) ([]byte, *WalletError) {
	if root == nil {
		return nil, wrapWalletError(CodeSerializeFailed, "root cell is nil", nil)
	}
	if root.containsPrebuilt() {
		return nil, wrapWalletError(CodeSerializeFailed, "tree contains an opaque prebuilt cell", nil)
	}

	cells, index := orderCells(root)

	// One byte each is enough for every message this wallet produces:
	// cell counts stay far below 256 and serialized sizes below 16 MiB
	// would still fit in the offset width chosen below.
	refSize := 1
	totalSerialized := 0
	for _, c := range cells {
		totalSerialized += 2 + (c.bitLen+7)/8 + len(c.refs)*refSize
	}
	offSize := 1
	for limit := 1 << 8; totalSerialized >= limit; limit <<= 8 {
		offSize++
	}

	out := make([]byte, 0, 4+1+1+3*refSize+offSize+refSize+totalSerialized+4)

	var magic [4]byte
	binary.BigEndian.PutUint32(magic[:], bocMagic)
	out = append(out, magic[:]...)

	// flags byte: has_crc32c set, ref byte width in the low bits
	out = append(out, byte(0x40|refSize))
	out = append(out, byte(offSize))
	out = append(out, byte(len(cells))) // cells
	out = append(out, 1)                // roots
	out = append(out, 0)                // absent
	out = appendUint(out, uint64(totalSerialized), offSize)
	out = append(out, 0) // root index

	for _, c := range cells {
		d1, d2 := c.descriptors()
		out = append(out, d1, d2)
		out = append(out, c.augmentedData()...)
		for _, ref := range c.refs {
			out = appendUint(out, uint64(index[ref]), refSize)
		}
	}

	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], crc32.Checksum(out, castagnoli))
	out = append(out, crc[:]...)

	return out, nil
}

// orderCells lists the unique cells of the tree so that each cell's index is
// strictly less than any of its children's. Sorting by the longest path from
// the root guarantees this even when a cell is shared, with the first-visit
// sequence breaking ties for determinism.
func orderCells(root *Cell) ([]*Cell, map[*Cell]int) {
	depthFromRoot := map[*Cell]int{}
	firstVisit := map[*Cell]int{}
	var cells []*Cell

	var walk func(c *Cell, depth int)
	walk = func(c *Cell, depth int) {
		if seen, ok := depthFromRoot[c]; !ok {
			depthFromRoot[c] = depth
			firstVisit[c] = len(cells)
			cells = append(cells, c)
		} else if depth <= seen {
			return
		} else {
			depthFromRoot[c] = depth
		}
		for _, ref := range c.refs {
			walk(ref, depth+1)
		}
	}
	walk(root, 0)

	sort.SliceStable(cells, func(i, j int) bool {
		if depthFromRoot[cells[i]] != depthFromRoot[cells[j]] {
			return depthFromRoot[cells[i]] < depthFromRoot[cells[j]]
		}
		return firstVisit[cells[i]] < firstVisit[cells[j]]
	})

	index := make(map[*Cell]int, len(cells))
	for i, c := range cells {
		index[c] = i
	}
	return cells, index
}

func appendUint(out []byte, value uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		out = append(out, byte(value>>uint(8*i)))
	}
	return out
}
