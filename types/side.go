package types

// Side is the direction of a position. There are no other values.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)
