package model

// FilterState represents the active search constraints for one chat session.
// An empty Area means nationwide (no geographic restriction). MinPrice,
// MaxPrice and RoomType are never derived from message text; they are
// supplied externally and must survive any area-only update untouched.
type FilterState struct {
	Area     string  `json:"area,omitempty"`
	MinPrice *int    `json:"min_price,omitempty"`
	MaxPrice *int    `json:"max_price,omitempty"`
	RoomType *string `json:"room_type,omitempty"`
}

// HasArea reports whether a geographic restriction is active.
func (f FilterState) HasArea() bool {
	return f.Area != ""
}

// Equal compares two filter states by content, not pointer identity.
func (f FilterState) Equal(other FilterState) bool {
	if f.Area != other.Area {
		return false
	}
	if !intPtrEqual(f.MinPrice, other.MinPrice) {
		return false
	}
	if !intPtrEqual(f.MaxPrice, other.MaxPrice) {
		return false
	}
	return strPtrEqual(f.RoomType, other.RoomType)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
