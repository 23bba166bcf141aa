package manifest

import "strings"

// Dependencies holds the raw dependency lines of the main and dev groups,
// in file order, with blank and comment lines removed.
type Dependencies struct {
	Main []Line
	Dev  []Line
	// DevFlag selects the dev group on the poetry command line:
	// "--group dev" for [tool.poetry.group.dev.dependencies], "--dev" for
	// the legacy [tool.poetry.dev-dependencies] (and when neither exists).
	DevFlag []string
	// HasDev is true when the manifest declares a dev table
	HasDev bool
}

// Dependencies collects the declared dependency lines
func (m *Manifest) Dependencies() Dependencies {
	deps := Dependencies{DevFlag: []string{"--dev"}}

	for _, line := range m.lines {
		switch line.Table {
		case tableDevGroup:
			deps.HasDev = true
			deps.DevFlag = []string{"--group", "dev"}
		case tableDevLegacy:
			if !deps.HasDev {
				deps.DevFlag = []string{"--dev"}
			}
			deps.HasDev = true
		}
	}

	for _, line := range m.lines {
		if !isEntry(line.Text) {
			continue
		}
		switch line.Table {
		case tableMainDeps:
			deps.Main = append(deps.Main, line)
		case tableDevGroup, tableDevLegacy:
			deps.Dev = append(deps.Dev, line)
		}
	}

	return deps
}

func isEntry(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	_, isHeader := tableHeader(trimmed)
	return !isHeader
}
