package bplus

import (
	"encoding/binary"

	"LeafDB/types"
)

/*
Standalone functions over the bytes of a node page.

Node page binary layout (all values little-endian):

	Offset  Size  Field
	──────────────────────────────────────────────────────
	0       1     PageType     uint8   — leaf or branch
	1       1     reserved
	2       2     NumSlots     uint16
	4       2     FreeOffset   uint16  — start of the cell area
	6       2     reserved
	8       8     Link         uint64  — leaf: next leaf, branch: right-most child
	──────────────────────────────────────────────────────
	16            NodeHeaderSize

	[ header 16B ][ slot dir → ][ free space ][ ← cells ]
	0             16            ^             ^          4096
	                            16+4*n        FreeOffset

Slot i lives at 16 + 4*i and is [ Offset uint16 ][ Length uint16 ].
Slots are kept in key order, cells are appended from the tail and never
move until the page is rebuilt.

A cell is [ KeyLen uint16 ][ key ][ value ]. Leaf values are row bytes,
branch values are the 8 byte page id of the child left of the key.
*/
const (
	offPageType   = 0
	offNumSlots   = 2
	offFreeOffset = 4
	offLink       = 8

	cellKeyLenSize = 2
	childIDSize    = 8
)

// initNode stamps an empty node header into data.
func initNode(data []byte, nodeType types.PageType) {
	clear(data[:types.NodeHeaderSize])
	data[offPageType] = byte(nodeType)
	setNumSlots(data, 0)
	setFreeOffset(data, types.PageSize)
	setLink(data, types.InvalidPageID)
}

func nodeType(data []byte) types.PageType {
	return types.PageType(data[offPageType])
}

func isLeaf(data []byte) bool {
	return nodeType(data) == types.PageTypeLeaf
}

func numSlots(data []byte) int {
	return int(binary.LittleEndian.Uint16(data[offNumSlots:]))
}

func setNumSlots(data []byte, n int) {
	binary.LittleEndian.PutUint16(data[offNumSlots:], uint16(n))
}

func freeOffset(data []byte) int {
	return int(binary.LittleEndian.Uint16(data[offFreeOffset:]))
}

func setFreeOffset(data []byte, off int) {
	binary.LittleEndian.PutUint16(data[offFreeOffset:], uint16(off))
}

func link(data []byte) types.PageID {
	return types.PageID(binary.LittleEndian.Uint64(data[offLink:]))
}

func setLink(data []byte, id types.PageID) {
	binary.LittleEndian.PutUint64(data[offLink:], uint64(id))
}

func slotPos(i int) int {
	return types.NodeHeaderSize + i*types.SlotSize
}

func slot(data []byte, i int) (offset, length int) {
	pos := slotPos(i)
	return int(binary.LittleEndian.Uint16(data[pos:])), int(binary.LittleEndian.Uint16(data[pos+2:]))
}

func cell(data []byte, i int) []byte {
	off, length := slot(data, i)
	return data[off : off+length]
}

// cellKey returns the key of slot i, aliasing the page bytes.
func cellKey(data []byte, i int) []byte {
	c := cell(data, i)
	keyLen := int(binary.LittleEndian.Uint16(c))
	return c[cellKeyLenSize : cellKeyLenSize+keyLen]
}

// cellValue returns the value of slot i, aliasing the page bytes.
func cellValue(data []byte, i int) []byte {
	c := cell(data, i)
	keyLen := int(binary.LittleEndian.Uint16(c))
	return c[cellKeyLenSize+keyLen:]
}

func cellChild(data []byte, i int) types.PageID {
	return types.PageID(binary.LittleEndian.Uint64(cellValue(data, i)))
}

// freeSpace is the gap between the slot directory and the cell area.
func freeSpace(data []byte) int {
	return freeOffset(data) - slotPos(numSlots(data))
}

// entrySize is the room one pair takes: cell plus its slot.
func entrySize(keyLen, valueLen int) int {
	return types.SlotSize + cellKeyLenSize + keyLen + valueLen
}

// insertCell places key/value at slot i, shifting later slots right.
// Returns false and leaves the page untouched when it does not fit.
func insertCell(data []byte, i int, key, value []byte) bool {
	size := entrySize(len(key), len(value))
	if size > freeSpace(data) {
		return false
	}

	n := numSlots(data)
	cellLen := size - types.SlotSize
	off := freeOffset(data) - cellLen

	binary.LittleEndian.PutUint16(data[off:], uint16(len(key)))
	copy(data[off+cellKeyLenSize:], key)
	copy(data[off+cellKeyLenSize+len(key):], value)

	// shift slot directory
	copy(data[slotPos(i+1):slotPos(n+1)], data[slotPos(i):slotPos(n)])
	pos := slotPos(i)
	binary.LittleEndian.PutUint16(data[pos:], uint16(off))
	binary.LittleEndian.PutUint16(data[pos+2:], uint16(cellLen))

	setNumSlots(data, n+1)
	setFreeOffset(data, off)
	return true
}

// lowerBound returns the first slot whose key is >= target.
func lowerBound(data []byte, target []byte, cmp func(a, b []byte) int) int {
	lo, hi := 0, numSlots(data)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if cmp(cellKey(data, mid), target) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first slot whose key is > target.
func upperBound(data []byte, target []byte, cmp func(a, b []byte) int) int {
	lo, hi := 0, numSlots(data)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if cmp(cellKey(data, mid), target) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// binarySearch returns the slot holding target, or -1.
func binarySearch(data []byte, target []byte, cmp func(a, b []byte) int) int {
	i := lowerBound(data, target, cmp)
	if i < numSlots(data) && cmp(cellKey(data, i), target) == 0 {
		return i
	}
	return -1
}

// childFor picks the child a key descends into: the number of separators <= key.
func childFor(data []byte, key []byte, cmp func(a, b []byte) int) types.PageID {
	i := upperBound(data, key, cmp)
	if i == numSlots(data) {
		return link(data)
	}
	return cellChild(data, i)
}

// insert inserts elem at index i in slice.
func insert[T any](slice []T, i int, elem T) []T {
	slice = append(slice, elem) // grow by 1
	copy(slice[i+1:], slice[i:])
	slice[i] = elem
	return slice
}
