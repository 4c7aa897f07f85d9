package models

// Coord is a WGS84 coordinate pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is the planner's result: the chosen path, the percentage of its points
// that lie outside all danger circles, and whether a detour was taken.
type Route struct {
	Path           []Coord `json:"path"`
	SafetyScore    float64 `json:"safety_score"`
	Detoured       bool    `json:"detoured"`
	DistanceMeters float64 `json:"distance_meters"`
}
