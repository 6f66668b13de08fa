// B+ tree inspection for debugging and the inspect_idx tool.

package bplus

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"LeafDB/types"
)

// Stats walks the whole tree level by level.
func (t *BPlusTree) Stats() (TreeStats, error) {
	var stats TreeStats
	err := t.walk(func(level int, node *Node) {
		if level+1 > stats.Height {
			stats.Height = level + 1
		}
		if node.isLeaf() {
			stats.Leaves++
			stats.Pairs += len(node.keys)
		} else {
			stats.Branches++
		}
	})
	return stats, err
}

// Dump writes a human-readable BFS listing of the tree to w:
// the meta page, then each node's keys and (for leaves) key -> value.
func (t *BPlusTree) Dump(w io.Writer) error {
	root, err := t.rootID()
	if err != nil {
		return err
	}
	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }

	p("  Page %d (meta): root page id = %d\n", t.metaPageID, root)
	p("\n  Nodes (BFS):\n  ---\n")

	lastLevel := -1
	err = t.walk(func(level int, node *Node) {
		if level != lastLevel {
			if lastLevel >= 0 {
				p("  ---\n")
			}
			p("  Level %d:\n", level)
			lastLevel = level
		}

		if !node.isLeaf() {
			keyStrs := make([]string, len(node.keys))
			for j, k := range node.keys {
				keyStrs[j] = formatBytes(k)
			}
			p("    [page %d] BRANCH keys=%v children=%v\n", node.pageID, keyStrs, node.children)
			return
		}

		p("    [page %d] LEAF numKeys=%d next=%s\n", node.pageID, len(node.keys), node.next)
		for j, key := range node.keys {
			p("      %s -> %s\n", formatBytes(key), formatBytes(node.values[j]))
		}
	})
	p("  ---\n")
	return err
}

// walk visits every node breadth first, one level at a time.
func (t *BPlusTree) walk(visit func(level int, node *Node)) error {
	root, err := t.rootID()
	if err != nil {
		return err
	}

	queue := []types.PageID{root}
	for level := 0; len(queue) > 0; level++ {
		if level >= maxHeight {
			return errors.Wrapf(ErrCorruptNode, "walk: deeper than %d levels", maxHeight)
		}
		size := len(queue)
		for i := 0; i < size; i++ {
			node, err := t.readNode(queue[i])
			if err != nil {
				return err
			}
			visit(level, node)
			if !node.isLeaf() {
				queue = append(queue, node.children...)
			}
		}
		queue = queue[size:]
	}
	return nil
}

func (t *BPlusTree) readNode(pageID types.PageID) (*Node, error) {
	g, err := t.pool.Fetch(pageID)
	if err != nil {
		return nil, errors.Wrapf(err, "readNode: page %d", pageID)
	}
	defer g.Release()
	return decodeNode(pageID, g.Data())
}

// formatBytes quotes printable byte strings and falls back to hex.
func formatBytes(b []byte) string {
	if strconv.CanBackquote(string(b)) {
		return strconv.Quote(string(b))
	}
	return fmt.Sprintf("%x", b)
}
