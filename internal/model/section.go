package model

// Section is one navigable page of the target application.
// Sections are created once from static configuration and never mutated.
type Section struct {
	// ID is the stable identifier used for the output file name.
	// It is unique across a registry.
	ID string `json:"id" yaml:"id"`

	// DisplayName is the human-readable name shown in listings.
	DisplayName string `json:"displayName" yaml:"displayName"`

	// NavToken addresses the navigation element of this section in the
	// target's introspection feed (its test id).
	NavToken string `json:"navToken" yaml:"navToken"`
}

// FileName returns the screenshot file name for the section.
func (s Section) FileName() string {
	return s.ID + ".png"
}
