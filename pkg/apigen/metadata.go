package apigen

import "github.com/getkin/kin-openapi/openapi3"

// Contact labels written into the document info block.
const (
	RepositoryLabel = "Repository"
	HomepageLabel   = "Homepage"
)

// Metadata is the package information baked into the document.
type Metadata struct {
	Name          string
	Version       string
	Description   string
	RepositoryURL string
	HomepageURL   string
}

// Validate reports the first missing required field.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return &ConfigurationError{Field: "name"}
	}
	if m.Version == "" {
		return &ConfigurationError{Field: "version"}
	}
	return nil
}

// Info builds the document info block. The document has a single contact,
// so a homepage replaces a repository when both are set.
func (m Metadata) Info() *openapi3.Info {
	info := &openapi3.Info{
		Title:       m.Name,
		Version:     m.Version,
		Description: m.Description,
	}
	if m.RepositoryURL != "" {
		info.Contact = &openapi3.Contact{Name: RepositoryLabel, URL: m.RepositoryURL}
	}
	if m.HomepageURL != "" {
		info.Contact = &openapi3.Contact{Name: HomepageLabel, URL: m.HomepageURL}
	}
	return info
}
