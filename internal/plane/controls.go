// Package plane ties wings, wheels and engine thrust together into one
// controllable airframe.
package plane

// Controls is the full pilot input for one frame. Throttle lives in [0, 1],
// the surfaces in [-1, 1]. Controls cross the thread boundary by value with
// latest-wins semantics: stale inputs are discarded, never blended.
type Controls struct {
	Throttle float64 `json:"throttle"`
	Elevator float64 `json:"elevator"`
	Aileron  float64 `json:"aileron"`
	Rudder   float64 `json:"rudder"`
}
