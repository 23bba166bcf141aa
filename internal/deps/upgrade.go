// Package deps turns the dependency tables of a manifest into poetry
// invocations for the sync and upgrade commands.
package deps

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/errors"
	"github.com/fasttortoise/fast/internal/manifest"
)

// Dependency is one parsed line of a dependency table
type Dependency struct {
	Name       string
	Constraint string // version constraint, "" when the source is url/git/path
	Extras     []string
	Platform   string
	Source     string
	Optional   bool
	Line       manifest.Line

	direct   bool // url, git or path dependency
	multiple bool // list of constraints per marker
}

// Skip explains why a dependency is left alone
type Skip struct {
	Dependency Dependency
	Reason     string
}

// Group is a set of packages upgraded by a single poetry add
type Group struct {
	Flags    []string
	Packages []string
	Trailing []string
}

// Plan is the result of inspecting the dependency tables
type Plan struct {
	Main    []string
	Dev     []string
	DevFlag []string
	Special []Group
	Skipped []Skip
}

// Commands renders the plan as poetry add invocations: main packages, dev
// packages, then every special flag group.
func (p *Plan) Commands() []command.Command {
	var cmds []command.Command
	if len(p.Main) > 0 {
		cmds = append(cmds, command.PoetryAdd(nil, p.Main, nil))
	}
	if len(p.Dev) > 0 {
		cmds = append(cmds, command.PoetryAdd(p.DevFlag, p.Dev, nil))
	}
	for _, g := range p.Special {
		cmds = append(cmds, command.PoetryAdd(g.Flags, g.Packages, g.Trailing))
	}
	return cmds
}

// PlanUpgrade inspects the manifest and decides which dependencies move to
// their latest compatible release.
func PlanUpgrade(m *manifest.Manifest) (*Plan, error) {
	tables := m.Dependencies()
	plan := &Plan{DevFlag: tables.DevFlag}

	mainArgs, mainSpecial, err := buildArgs(m.Path, tables.Main, plan)
	if err != nil {
		return nil, err
	}
	devArgs, devSpecial, err := buildArgs(m.Path, tables.Dev, plan)
	if err != nil {
		return nil, err
	}

	plan.Main = mainArgs
	plan.Dev = devArgs
	plan.Special = append(plan.Special, mainSpecial...)
	for _, g := range devSpecial {
		g.Trailing = tables.DevFlag
		plan.Special = append(plan.Special, g)
	}
	return plan, nil
}

// buildArgs returns plain package arguments and flag groups in first-seen
// order; skipped lines are recorded on plan.
func buildArgs(path string, lines []manifest.Line, plan *Plan) ([]string, []Group, error) {
	var args []string
	var groups []Group
	index := map[string]int{}

	for _, line := range lines {
		dep, err := ParseLine(path, line)
		if err != nil {
			return nil, nil, err
		}
		if reason := skipReason(dep); reason != "" {
			plan.Skipped = append(plan.Skipped, Skip{Dependency: dep, Reason: reason})
			continue
		}

		item := dep.Name
		if len(dep.Extras) > 0 {
			item += "[" + strings.Join(dep.Extras, ",") + "]"
		}
		item += "@latest"

		flags := dep.flags()
		if len(flags) == 0 {
			args = append(args, item)
			continue
		}

		key := strings.Join(flags, " ")
		if i, ok := index[key]; ok {
			groups[i].Packages = append(groups[i].Packages, item)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Flags: flags, Packages: []string{item}})
	}

	return args, groups, nil
}

func (d Dependency) flags() []string {
	var flags []string
	if d.Platform != "" {
		flags = append(flags, "--platform="+d.Platform)
	}
	if d.Source != "" {
		flags = append(flags, "--source="+d.Source)
	}
	if d.Optional {
		flags = append(flags, "--optional")
	}
	return flags
}

// skipReason returns why dep must not be upgraded, or "". Only caret and
// tilde ranges move; exact pins and explicit bounds stay as written.
func skipReason(dep Dependency) string {
	switch {
	case strings.EqualFold(dep.Name, "python"):
		return "interpreter constraint"
	case dep.direct:
		return "url/git/path dependency"
	case dep.multiple:
		return "multiple constraints"
	case dep.Constraint == "*":
		return "wildcard"
	case dep.Constraint == "":
		return "no version constraint"
	case strings.HasPrefix(dep.Constraint, "^"), strings.HasPrefix(dep.Constraint, "~"):
		return ""
	default:
		return "pinned or bounded version"
	}
}

// ParseLine decodes a `name = value` dependency line. The value is decoded
// with go-toml so both plain strings and inline tables are understood.
func ParseLine(path string, line manifest.Line) (Dependency, error) {
	name, value, ok := strings.Cut(line.Text, "=")
	if !ok {
		return Dependency{}, errors.InvalidDependencyLine(path, line.Text)
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" {
		return Dependency{}, errors.InvalidDependencyLine(path, line.Text)
	}

	var decoded struct {
		V interface{} `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+strings.TrimSpace(value)), &decoded); err != nil {
		return Dependency{}, errors.InvalidDependencyLine(path, line.Text)
	}

	dep := Dependency{Name: name, Line: line}
	switch v := decoded.V.(type) {
	case string:
		dep.Constraint = strings.TrimSpace(v)
	case map[string]interface{}:
		dep.Constraint = strings.TrimSpace(stringField(v, "version"))
		dep.Platform = stringField(v, "platform")
		dep.Source = stringField(v, "source")
		dep.Optional, _ = v["optional"].(bool)
		for _, key := range []string{"url", "git", "path"} {
			if _, ok := v[key]; ok {
				dep.direct = true
			}
		}
		if extras, ok := v["extras"].([]interface{}); ok {
			for _, e := range extras {
				dep.Extras = append(dep.Extras, fmt.Sprint(e))
			}
		}
	default:
		dep.multiple = true
	}
	return dep, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
