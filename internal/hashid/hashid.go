// Package hashid implements the opaque external identifier codec. Internal
// numeric primary keys are never exposed on the wire; every id crossing the
// API boundary is a reversible obfuscated string. The encoding is purely
// structural: it is keyed by a deployment-wide salt, not by tenant, so
// decoding an id belonging to another tenant succeeds and must be rejected
// by the query scope layer.
package hashid

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"hash/fnv"
)

var (
	ErrInvalidHashID = errors.New("hashid: malformed identifier")

	encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

type Codec struct {
	key uint64
}

func NewCodec(salt string) *Codec {
	h := fnv.New64a()
	h.Write([]byte(salt))
	return &Codec{key: h.Sum64()}
}

// Encode maps an internal id to its external form. Deterministic and
// bijective for ids >= 0.
func (c *Codec) Encode(id int64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id)^c.key)
	return encoding.EncodeToString(buf[:])
}

// EncodeNullable renders absent associations as the empty string, matching
// the API contract for optional hashed ids such as assigned_user_id.
func (c *Codec) EncodeNullable(id *int64) string {
	if id == nil {
		return ""
	}
	return c.Encode(*id)
}

func (c *Codec) Decode(hash string) (int64, error) {
	raw, err := encoding.DecodeString(hash)
	if err != nil || len(raw) != 8 {
		return 0, ErrInvalidHashID
	}
	id := int64(binary.BigEndian.Uint64(raw) ^ c.key)
	if id < 0 {
		return 0, ErrInvalidHashID
	}
	return id, nil
}

// DecodeMany decodes a batch of external ids, failing on the first
// malformed entry.
func (c *Codec) DecodeMany(hashes []string) ([]int64, error) {
	ids := make([]int64, 0, len(hashes))
	for _, h := range hashes {
		id, err := c.Decode(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
