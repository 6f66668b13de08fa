package bplus

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"LeafDB/types"
)

/*
Meta page layout (one per tree):

	Offset  Size  Field
	──────────────────────────────────────────────────────
	0       1     PageType    uint8   — meta
	1       3     Magic       "LDB"
	4       2     Version     uint16
	6       2     PayloadLen  uint16
	8       8     RootPageID  uint64
	16      8     Checksum    uint64  — xxhash64 of [0,16) and the payload
	24      n     Payload     — owned by whoever created the tree
	──────────────────────────────────────────────────────
*/
const (
	metaOffMagic      = 1
	metaOffVersion    = 4
	metaOffPayloadLen = 6
	metaOffRoot       = 8
	metaOffChecksum   = 16
	metaHeaderSize    = 24

	metaVersion = 1

	// MaxPayloadSize is the largest owner payload a meta page can carry.
	MaxPayloadSize = types.PageSize - metaHeaderSize
)

var metaMagic = [3]byte{'L', 'D', 'B'}

func metaChecksum(data []byte, payloadLen int) uint64 {
	d := xxhash.New()
	_, _ = d.Write(data[:metaOffChecksum])
	_, _ = d.Write(data[metaHeaderSize : metaHeaderSize+payloadLen])
	return d.Sum64()
}

// writeMeta formats a whole meta page.
func writeMeta(data []byte, root types.PageID, payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return errors.Wrapf(ErrPayloadTooLarge, "%d bytes, max %d", len(payload), MaxPayloadSize)
	}
	clear(data)
	data[offPageType] = byte(types.PageTypeMeta)
	copy(data[metaOffMagic:], metaMagic[:])
	binary.LittleEndian.PutUint16(data[metaOffVersion:], metaVersion)
	binary.LittleEndian.PutUint16(data[metaOffPayloadLen:], uint16(len(payload)))
	binary.LittleEndian.PutUint64(data[metaOffRoot:], uint64(root))
	copy(data[metaHeaderSize:], payload)
	binary.LittleEndian.PutUint64(data[metaOffChecksum:], metaChecksum(data, len(payload)))
	return nil
}

// setMetaRoot rewrites the root pointer of a validated meta page.
func setMetaRoot(data []byte, root types.PageID) {
	binary.LittleEndian.PutUint64(data[metaOffRoot:], uint64(root))
	payloadLen := int(binary.LittleEndian.Uint16(data[metaOffPayloadLen:]))
	binary.LittleEndian.PutUint64(data[metaOffChecksum:], metaChecksum(data, payloadLen))
}

// readMeta validates a meta page and returns the root id and a view of the payload.
func readMeta(pageID types.PageID, data []byte) (types.PageID, []byte, error) {
	if types.PageType(data[offPageType]) != types.PageTypeMeta {
		return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptMeta, "page %d is a %s page", pageID, types.PageType(data[offPageType]))
	}
	if [3]byte(data[metaOffMagic:metaOffMagic+3]) != metaMagic {
		return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptMeta, "page %d: bad magic", pageID)
	}
	if v := binary.LittleEndian.Uint16(data[metaOffVersion:]); v != metaVersion {
		return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptMeta, "page %d: unsupported version %d", pageID, v)
	}
	payloadLen := int(binary.LittleEndian.Uint16(data[metaOffPayloadLen:]))
	if payloadLen > MaxPayloadSize {
		return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptMeta, "page %d: payload length %d", pageID, payloadLen)
	}
	want := binary.LittleEndian.Uint64(data[metaOffChecksum:])
	if got := metaChecksum(data, payloadLen); got != want {
		return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptMeta, "page %d: checksum %x, want %x", pageID, got, want)
	}

	root := types.PageID(binary.LittleEndian.Uint64(data[metaOffRoot:]))
	return root, data[metaHeaderSize : metaHeaderSize+payloadLen], nil
}
