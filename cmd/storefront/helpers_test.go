package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
)

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// testEnv is a project directory holding a config path, a themes directory
// and a workspace file.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	return testEnv{dir: dir, config: filepath.Join(dir, "storefront.yaml")}
}

func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommand(t, append([]string{"--config", e.config}, args...)...)
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

func (e testEnv) workspace() *workspace.Workspace {
	return workspace.New(filepath.Join(e.dir, "storefront.workspace.json"))
}

func (e testEnv) load(t *testing.T) workspace.Document {
	t.Helper()
	doc, err := e.workspace().Load()
	require.NoError(t, err)
	return doc
}

func (e testEnv) page(t *testing.T, name string) page.Page {
	t.Helper()
	doc := e.load(t)
	for _, p := range doc.Theme.Pages {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("page %q not found", name)
	return page.Page{}
}

func (e testEnv) writeFile(t *testing.T, name, contents string) {
	t.Helper()
	full := filepath.Join(e.dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func sectionTypes(p page.Page) []string {
	types := make([]string, len(p.Body))
	for i, section := range p.Body {
		types[i] = section.Type
	}
	return types
}

const classicManifest = `id: classic
name: Classic
componentPathPrefix: classic/sections
pages:
  - name: home
    allowedSectionTypes: [Banner, Footer]
    body:
      - id: banner
        type: Banner
        data:
          title: Welcome
      - id: foot
        type: Footer
        name: Site footer
`

const bannerDefinition = `name: Banner
version: 1.2.0
apiVersion: ">=1.0.0 <2.0.0"
fieldOrder: [title]
schema:
  title:
    kind: text
    label: Title
    default: Hello
template: |
  {{ upper .Data.title }}
`

func (e testEnv) writeClassicTheme(t *testing.T) {
	t.Helper()
	e.writeFile(t, "themes/classic/theme.yaml", classicManifest)
	e.writeFile(t, "themes/classic/sections/Banner.section.yaml", bannerDefinition)
}
