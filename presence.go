package qskema

// Presence is the bit flag collected by DecodeWithMeta and ParseWithMeta.
type Presence uint8

const (
	PresenceSeen         Presence = 1 << iota // Parameter appeared in the input.
	PresenceDuplicate                         // Parameter appeared more than once; the last value was used.
	PresenceEmpty                             // The value used was the empty string.
	PresenceCoerceFailed                      // A raw value was present but coerced to undefined.
	PresenceDefaulted                         // Boolean parameter was absent and decoded as false.
)

// Has reports whether all bits of f are set.
func (p Presence) Has(f Presence) bool { return p&f == f }

// PresenceMap maps field names to Presence flags. Fields that never appeared
// and were not defaulted are absent from the map.
type PresenceMap map[string]Presence

// Seen reports whether the field appeared in the input.
func (pm PresenceMap) Seen(field string) bool { return pm[field].Has(PresenceSeen) }

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}
