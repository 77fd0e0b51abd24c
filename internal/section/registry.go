package section

import (
	"fmt"
	"strings"

	"github.com/nao1215/docshot/internal/model"
	"golang.org/x/text/cases"
)

// Registry is an ordered, immutable list of sections.
type Registry struct {
	sections []model.Section
}

// New validates the sections and builds a registry preserving their order.
func New(sections []model.Section) (*Registry, error) {
	if len(sections) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{sections: make([]model.Section, len(sections))}
	ids := make(map[string]struct{}, len(sections))
	tokens := make(map[string]struct{}, len(sections))

	for i, s := range sections {
		s.ID = strings.TrimSpace(s.ID)
		s.NavToken = strings.TrimSpace(s.NavToken)
		if s.ID == "" || s.NavToken == "" {
			return nil, fmt.Errorf("section %d: %w", i, ErrEmptyField)
		}
		if s.DisplayName == "" {
			s.DisplayName = s.ID
		}
		if _, ok := ids[s.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
		}
		if _, ok := tokens[s.NavToken]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateToken, s.NavToken)
		}
		tokens[s.NavToken] = struct{}{}
		ids[s.ID] = struct{}{}
		r.sections[i] = s
	}

	return r, nil
}

// Default returns the registry of the showcase's component sections.
func Default() *Registry {
	r, err := New(DefaultSections())
	if err != nil {
		panic(fmt.Sprintf("section: invalid default registry: %v", err))
	}
	return r
}

// Sections returns a copy of the sections in registry order.
func (r *Registry) Sections() []model.Section {
	out := make([]model.Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// IDs returns the section ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.sections))
	for i, s := range r.sections {
		ids[i] = s.ID
	}
	return ids
}

// Resolve finds a section by id or display name, both compared
// case-insensitively. The first match in registry order wins.
// Unknown names return a *NotFoundError.
func (r *Registry) Resolve(name string) (model.Section, error) {
	name = strings.TrimSpace(name)
	folder := cases.Fold()
	folded := folder.String(name)
	for _, s := range r.sections {
		if folder.String(s.ID) == folded || folder.String(s.DisplayName) == folded {
			return s, nil
		}
	}
	return model.Section{}, &NotFoundError{Name: name, ValidIDs: r.IDs()}
}
