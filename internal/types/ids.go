// README: Identifier and geographic point value objects shared by modules.
package types

type ID string

func (id ID) String() string { return string(id) }

// Point is a WGS84 coordinate. The zero value means "not geocoded".
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
