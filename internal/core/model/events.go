package model

// FallbackEvent records a value substituted during a build, with enough
// context for the report to show before/after and why.
type FallbackEvent struct {
	Line       int    `json:"line"`
	RecordName string `json:"record_name"`
	Variant    string `json:"variant,omitempty"`
	Field      string `json:"field"`
	Before     string `json:"before"`
	After      string `json:"after"`
	Reason     string `json:"reason"`
}

// SkipEvent records a source row dropped from the build.
type SkipEvent struct {
	Line       int    `json:"line"`
	RecordName string `json:"record_name,omitempty"`
	Reason     string `json:"reason"`
}

// CollisionEvent records two output records arriving at the same identity
// and how the conflict was resolved.
type CollisionEvent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Variant    string `json:"variant,omitempty"`
	Resolution string `json:"resolution"`
}
