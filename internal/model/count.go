package model

// CountRequest is the request body sent to the inventory count service.
// It carries the full filter state, not just the area, so the count always
// reflects every active constraint.
type CountRequest struct {
	Area     string  `json:"area,omitempty"`
	MinPrice *int    `json:"min_price,omitempty"`
	MaxPrice *int    `json:"max_price,omitempty"`
	RoomType *string `json:"room_type,omitempty"`
}

// CountRequestFromFilter builds a count request from a filter state.
func CountRequestFromFilter(f FilterState) CountRequest {
	return CountRequest{
		Area:     f.Area,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		RoomType: f.RoomType,
	}
}

// Filter returns the filter state this request was built from.
func (r CountRequest) Filter() FilterState {
	return FilterState{
		Area:     r.Area,
		MinPrice: r.MinPrice,
		MaxPrice: r.MaxPrice,
		RoomType: r.RoomType,
	}
}

// CountResponse is the count service's answer: the number of matching
// listings plus an echo of the filters it applied.
type CountResponse struct {
	Count   int         `json:"count"`
	Filters FilterState `json:"filters"`
}

// CountSnapshot is the last successfully applied count for a session,
// tagged with the sequence number of the request that produced it.
type CountSnapshot struct {
	Count   int         `json:"count"`
	Filters FilterState `json:"filters"`
	Seq     uint64      `json:"-"`
}
