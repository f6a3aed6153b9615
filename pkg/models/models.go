// Package models defines the JSON payloads served by the ulam HTTP API.
//
// These types are public so that clients can decode responses without
// depending on the server internals.
package models

import "github.com/agbru/ulam/internal/spiral"

// Point is one spiral coordinate.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// SpiralResponse is the body of a successful GET /spiral request.
type SpiralResponse struct {
	// Count is the number of coordinates returned.
	Count uint64 `json:"count"`
	// Rings is the number of rings, the origin included, fully covered.
	Rings uint64 `json:"rings"`
	// Duration is the formatted generation time.
	Duration string `json:"duration"`
	// Coordinates lists the points in visit order, starting at the origin.
	Coordinates []Point `json:"coordinates"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// PointsFrom converts generated coordinates to their wire form.
func PointsFrom(coords []spiral.Coord[int64]) []Point {
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = Point{X: c.X, Y: c.Y}
	}
	return points
}
