// Package content holds the declarative navigation of the textbook.
//
// Sidebars are consumed at build time by the site generator. This package only
// models, loads, and checks them; nothing here has runtime state.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Item types
const (
	TypeDoc      = "doc"
	TypeCategory = "category"
	TypeLink     = "link"
)

// Item is a single sidebar entry. In YAML a bare string is shorthand for a doc item.
type Item struct {
	Type  string `yaml:"type" json:"type" validate:"required,oneof=doc category link"`
	ID    string `yaml:"id,omitempty" json:"id,omitempty" validate:"required_if=Type doc"`
	Label string `yaml:"label,omitempty" json:"label,omitempty" validate:"required_if=Type category,required_if=Type link"`
	Href  string `yaml:"href,omitempty" json:"href,omitempty" validate:"required_if=Type link"`
	Items []Item `yaml:"items,omitempty" json:"items,omitempty" validate:"required_if=Type category,dive"`
}

// Doc returns a doc item
func Doc(id string) Item {
	return Item{Type: TypeDoc, ID: id}
}

// Category returns a category item
func Category(label string, items ...Item) Item {
	return Item{Type: TypeCategory, Label: label, Items: items}
}

// UnmarshalYAML accepts either a doc id string or a full mapping
func (i *Item) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*i = Doc(value.Value)
		return nil
	}

	type plain Item
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*i = Item(p)
	return nil
}

// MarshalYAML writes plain doc items back in shorthand form
func (i Item) MarshalYAML() (interface{}, error) {
	if i.Type == TypeDoc && i.Label == "" && i.Href == "" && len(i.Items) == 0 {
		return i.ID, nil
	}
	type plain Item
	return plain(i), nil
}

// Sidebars maps a sidebar name to its ordered items
type Sidebars map[string][]Item

// DefaultSidebars returns the textbook navigation
func DefaultSidebars() Sidebars {
	return Sidebars{
		"tutorialSidebar": {
			Doc("intro"),
			Category("Chapter 1: Introduction to Physical AI and ROS2 Framework",
				Doc("ch1-introduction/sub1-what-is-physical-ai"),
				Doc("ch1-introduction/sub2-ros2-overview"),
				Doc("ch1-introduction/sub3-setup-env"),
				Doc("ch1-introduction/sub4-architecture-elements"),
				Doc("ch1-introduction/sub5-packages-workspaces"),
				Doc("ch1-introduction/sub6-commands-tools"),
			),
			Category("Modules",
				Doc("modules/mod1-ros2-deep-dive"),
			),
			Category("Labs",
				Doc("labs/lab1-1-ros2-installation"),
				Doc("labs/lab1-2-first-nodes"),
			),
		},
	}
}

// LoadSidebars reads sidebars from a YAML file
func LoadSidebars(path string) (Sidebars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidebars: %w", err)
	}

	var sidebars Sidebars
	if err := yaml.Unmarshal(data, &sidebars); err != nil {
		return nil, fmt.Errorf("failed to parse sidebars: %w", err)
	}

	return sidebars, nil
}

// Marshal renders the sidebars as YAML
func (s Sidebars) Marshal() ([]byte, error) {
	return yaml.Marshal(map[string][]Item(s))
}

// Names returns sidebar names in sorted order
func (s Sidebars) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DocIDs returns every doc id in navigation order, sidebars taken by name
func (s Sidebars) DocIDs() []string {
	var ids []string
	for _, name := range s.Names() {
		ids = collectDocIDs(s[name], ids)
	}
	return ids
}

func collectDocIDs(items []Item, ids []string) []string {
	for _, item := range items {
		switch item.Type {
		case TypeDoc:
			ids = append(ids, item.ID)
		case TypeCategory:
			ids = collectDocIDs(item.Items, ids)
		}
	}
	return ids
}

// Validate checks item structure and rejects doc ids listed more than once
func (s Sidebars) Validate() error {
	if len(s) == 0 {
		return errors.New("no sidebars defined")
	}

	validate := validator.New()
	for _, name := range s.Names() {
		if len(s[name]) == 0 {
			return fmt.Errorf("sidebar %q has no items", name)
		}
		for idx, item := range s[name] {
			if err := validate.Struct(item); err != nil {
				return fmt.Errorf("sidebar %q item %d: %w", name, idx, describe(err))
			}
		}
	}

	seen := make(map[string]bool)
	for _, id := range s.DocIDs() {
		if seen[id] {
			return fmt.Errorf("doc %q appears more than once", id)
		}
		seen[id] = true
	}

	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("field %s failed %q check", verrs[0].Namespace(), verrs[0].Tag())
	}
	return err
}

// docExtensions are the source formats the site generator accepts for a doc id
var docExtensions = []string{".md", ".mdx"}

// CheckDocs returns the doc ids that have no source file under docsDir
func (s Sidebars) CheckDocs(docsDir string) ([]string, error) {
	info, err := os.Stat(docsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", docsDir)
	}

	var missing []string
	for _, id := range s.DocIDs() {
		if !docExists(docsDir, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func docExists(docsDir, id string) bool {
	base := filepath.Join(docsDir, filepath.FromSlash(id))
	for _, ext := range docExtensions {
		if fi, err := os.Stat(base + ext); err == nil && !fi.IsDir() {
			return true
		}
	}
	return false
}
