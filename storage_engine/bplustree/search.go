package bplus

import "github.com/pkg/errors"

// Search looks for a key and returns a copy of its value.
func (t *BPlusTree) Search(key []byte) ([]byte, bool, error) {
	leafID, _, err := t.findLeaf(key)
	if err != nil {
		return nil, false, errors.Wrap(err, "Search")
	}

	g, err := t.pool.Fetch(leafID)
	if err != nil {
		return nil, false, errors.Wrap(err, "Search")
	}
	defer g.Release()

	idx := binarySearch(g.Data(), key, t.cmp)
	if idx == -1 {
		return nil, false, nil
	}
	return clone(cellValue(g.Data(), idx)), true, nil
}
