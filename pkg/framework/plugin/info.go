package plugin

import "fmt"

// Info contains processor metadata
type Info struct {
	ID       string // Unique identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Category (e.g., "Fx|Distortion")
}

// String returns "Name Version (Vendor)"
func (i Info) String() string {
	s := i.Name
	if i.Version != "" {
		s += " " + i.Version
	}
	if i.Vendor != "" {
		s += fmt.Sprintf(" (%s)", i.Vendor)
	}
	return s
}
