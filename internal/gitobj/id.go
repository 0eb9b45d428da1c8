// Package gitobj defines the identifiers, modes, and error taxonomy shared by
// the object-database access subsystems (window cache, tree walker, revision
// walker).
package gitobj

import (
	"encoding/hex"
	"fmt"

	"github.com/pjbgf/sha1cd"
)

// IDLength is the length in bytes of an object identifier (SHA-1 digest).
const IDLength = 20

// ID is a fixed-length, content-addressed object identifier. The zero value
// is the canonical "zero id" used to mean "no object".
type ID [IDLength]byte

// ZeroID is the canonical zero-value identifier.
var ZeroID ID

// IsZero reports whether id is the zero id.
func (id ID) IsZero() bool {
	return id == ZeroID
}

// Equal compares two ids byte-wise.
func (id ID) Equal(other ID) bool {
	return id == other
}

// String renders the id as lowercase hex, matching Git's canonical form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseID decodes a 40-character hex string into an ID.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != IDLength*2 {
		return id, fmt.Errorf("gitobj: invalid object id %q: wrong length", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("gitobj: invalid object id %q: %w", s, err)
	}
	copy(id[:], b)
	return id, nil
}

// HashObject computes the ID of a loose object payload the way Git does:
// sha1("<type> <size>\0" + data). Collision-detection is provided by sha1cd
// so a deliberately crafted colliding pair of objects does not silently
// alias in the cache or database lookups.
func HashObject(typ ObjectType, data []byte) ID {
	h := sha1cd.New()
	fmt.Fprintf(h, "%s %d\x00", typ, len(data))
	h.Write(data)
	var id ID
	copy(id[:], h.Sum(nil))
	return id
}

// Less orders ids byte-wise, used when a deterministic order over ids is
// needed (e.g. directory-cache stage disambiguation).
func Less(a, b ID) bool {
	for i := 0; i < IDLength; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
