package logging

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	color.NoColor = true

	t.Run("should echo commands to stdout", func(t *testing.T) {
		var out, errOut bytes.Buffer
		log := NewLogger(&out, &errOut, false)

		log.Command("poetry run black .")

		assert.Equal(t, "--> poetry run black .\n", out.String())
		assert.Empty(t, errOut.String())
	})

	t.Run("should prefix every line with the tag", func(t *testing.T) {
		var out bytes.Buffer
		log := NewLogger(&out, &out, false)

		log.Info("bump", "line one\nline two")

		assert.Equal(t, "bump  line one\nbump  line two\n", out.String())
	})

	t.Run("should write warnings to stderr", func(t *testing.T) {
		var out, errOut bytes.Buffer
		log := NewLogger(&out, &errOut, false)

		log.Warn("skip", "%s is not installed", "mypy")

		assert.Empty(t, out.String())
		assert.Equal(t, "skip  mypy is not installed\n", errOut.String())
	})

	t.Run("should print debug only when verbose", func(t *testing.T) {
		var quiet, loud bytes.Buffer
		NewLogger(&quiet, &quiet, false).Debug("root", "found %s", "pyproject.toml")
		NewLogger(&loud, &loud, true).Debug("root", "found %s", "pyproject.toml")

		assert.Empty(t, quiet.String())
		assert.Contains(t, loud.String(), "found pyproject.toml")
	})
}
