package bplus

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"LeafDB/types"
)

/*
decodeNode and encodeNode convert between a node page and a Node.

Plain inserts work on the page bytes directly (insertCell). Splits decode
the page, edit the key/value/child slices and then rebuild the page from
scratch with encodeNode, which also compacts the cell area.
*/

// decodeNode copies a node page into a Node. The result does not alias data.
func decodeNode(pageID types.PageID, data []byte) (*Node, error) {
	t := nodeType(data)
	if t != types.PageTypeLeaf && t != types.PageTypeBranch {
		return nil, errors.Wrapf(ErrCorruptNode, "page %d has type %s", pageID, t)
	}
	n := numSlots(data)
	if slotPos(n) > freeOffset(data) || freeOffset(data) > types.PageSize {
		return nil, errors.Wrapf(ErrCorruptNode, "page %d: %d slots, free offset %d", pageID, n, freeOffset(data))
	}

	node := &Node{
		pageID:   pageID,
		nodeType: t,
		keys:     make([][]byte, 0, n+1),
	}
	for i := 0; i < n; i++ {
		node.keys = append(node.keys, clone(cellKey(data, i)))
	}

	if t == types.PageTypeLeaf {
		node.values = make([][]byte, 0, n+1)
		for i := 0; i < n; i++ {
			node.values = append(node.values, clone(cellValue(data, i)))
		}
		node.next = link(data)
		return node, nil
	}

	node.children = make([]types.PageID, 0, n+2)
	for i := 0; i < n; i++ {
		node.children = append(node.children, cellChild(data, i))
	}
	node.children = append(node.children, link(data))
	return node, nil
}

// encodeNode rebuilds data from node. The caller checks node.fits() first.
func encodeNode(node *Node, data []byte) error {
	initNode(data, node.nodeType)

	var child [childIDSize]byte
	for i, key := range node.keys {
		value := child[:]
		if node.isLeaf() {
			value = node.values[i]
		} else {
			binary.LittleEndian.PutUint64(value, uint64(node.children[i]))
		}
		if !insertCell(data, i, key, value) {
			return errors.Wrapf(ErrCorruptNode, "encodeNode: page %d overflows at slot %d", node.pageID, i)
		}
	}

	if node.isLeaf() {
		setLink(data, node.next)
	} else {
		setLink(data, node.children[len(node.children)-1])
	}
	return nil
}

func (n *Node) isLeaf() bool {
	return n.nodeType == types.PageTypeLeaf
}

// entrySizes lists the on-page size of every pair in key order.
func (n *Node) entrySizes() []int {
	sizes := make([]int, len(n.keys))
	for i, key := range n.keys {
		if n.isLeaf() {
			sizes[i] = entrySize(len(key), len(n.values[i]))
		} else {
			sizes[i] = entrySize(len(key), childIDSize)
		}
	}
	return sizes
}

func (n *Node) fits() bool {
	total := 0
	for _, s := range n.entrySizes() {
		total += s
	}
	return total <= nodeBodySize
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
