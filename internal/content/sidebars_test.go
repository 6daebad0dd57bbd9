package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSidebars(t *testing.T) {
	sidebars := DefaultSidebars()

	require.NoError(t, sidebars.Validate())

	ids := sidebars.DocIDs()
	assert.Len(t, ids, 10)
	assert.Equal(t, "intro", ids[0])
	assert.Equal(t, "ch1-introduction/sub1-what-is-physical-ai", ids[1])
	assert.Equal(t, "labs/lab1-2-first-nodes", ids[len(ids)-1])

	items := sidebars["tutorialSidebar"]
	require.Len(t, items, 4)
	assert.Equal(t, TypeCategory, items[1].Type)
	assert.Equal(t, "Chapter 1: Introduction to Physical AI and ROS2 Framework", items[1].Label)
	assert.Len(t, items[1].Items, 6)
}

func TestLoadSidebars_Shorthand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebars.yaml")
	content := `
tutorialSidebar:
  - intro
  - type: category
    label: Labs
    items:
      - labs/lab1-1-ros2-installation
      - type: doc
        id: labs/lab1-2-first-nodes
  - type: link
    label: ROS 2 docs
    href: https://docs.ros.org
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sidebars, err := LoadSidebars(path)
	require.NoError(t, err)
	require.NoError(t, sidebars.Validate())

	items := sidebars["tutorialSidebar"]
	require.Len(t, items, 3)
	assert.Equal(t, Doc("intro"), items[0])
	assert.Equal(t, []string{"intro", "labs/lab1-1-ros2-installation", "labs/lab1-2-first-nodes"}, sidebars.DocIDs())
	assert.Equal(t, TypeLink, items[2].Type)
}

func TestLoadSidebars_Errors(t *testing.T) {
	_, err := LoadSidebars(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sidebars")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tutorialSidebar: {"), 0644))
	_, err = LoadSidebars(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse sidebars")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		sidebars Sidebars
		wantErr  string
	}{
		{
			name:     "empty",
			sidebars: Sidebars{},
			wantErr:  "no sidebars defined",
		},
		{
			name:     "sidebar without items",
			sidebars: Sidebars{"main": {}},
			wantErr:  "has no items",
		},
		{
			name:     "category without label",
			sidebars: Sidebars{"main": {{Type: TypeCategory, Items: []Item{Doc("intro")}}}},
			wantErr:  "Label",
		},
		{
			name:     "doc without id",
			sidebars: Sidebars{"main": {Doc("")}},
			wantErr:  "ID",
		},
		{
			name:     "nested doc without id",
			sidebars: Sidebars{"main": {Category("Labs", Doc(""))}},
			wantErr:  "ID",
		},
		{
			name:     "link without href",
			sidebars: Sidebars{"main": {{Type: TypeLink, Label: "Home"}}},
			wantErr:  "Href",
		},
		{
			name:     "unknown type",
			sidebars: Sidebars{"main": {{Type: "html"}}},
			wantErr:  "oneof",
		},
		{
			name:     "duplicate doc",
			sidebars: Sidebars{"main": {Doc("intro"), Category("Again", Doc("intro"))}},
			wantErr:  `doc "intro" appears more than once`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sidebars.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckDocs(t *testing.T) {
	docs := t.TempDir()
	for _, name := range []string{"intro.md", "labs/lab1-1-ros2-installation.mdx"} {
		full := filepath.Join(docs, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("# doc"), 0644))
	}

	sidebars := Sidebars{"main": {
		Doc("intro"),
		Category("Labs", Doc("labs/lab1-1-ros2-installation"), Doc("labs/lab1-2-first-nodes")),
	}}

	missing, err := sidebars.CheckDocs(docs)
	require.NoError(t, err)
	assert.Equal(t, []string{"labs/lab1-2-first-nodes"}, missing)

	_, err = sidebars.CheckDocs(filepath.Join(docs, "nope"))
	require.Error(t, err)
}

func TestMarshal_UsesShorthandForDocs(t *testing.T) {
	data, err := DefaultSidebars().Marshal()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "- intro\n")
	assert.Contains(t, out, "type: category")
	assert.False(t, strings.Contains(out, "type: doc"), "plain docs should be written as bare ids")
}
