// Package logging prints fast's own messages: the "-->" echo of every tool
// invocation and short tagged status lines.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Logger struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

func NewLogger(out, err io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		err:     err,
		verbose: verbose,
	}
}

// Writer returns the stdout side of the logger, for streaming tool output
func (l *Logger) Writer() io.Writer {
	return l.out
}

func (l *Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

// Command echoes an invocation before it runs
func (l *Logger) Command(line string) {
	fmt.Fprintf(l.out, "%s %s\n", color.HiCyanString("-->"), line)
}

func (l *Logger) Info(tag string, f string, args ...interface{}) {
	print(l.out, color.New(color.FgHiGreen), tag, f, args...)
}

func (l *Logger) Warn(tag string, f string, args ...interface{}) {
	print(l.err, color.New(color.FgHiYellow), tag, f, args...)
}

func (l *Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose {
		print(l.err, color.New(color.FgGreen), tag, f, args...)
	}
}

func print(w io.Writer, tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s  %s\n", tagColor.Sprint(tag), line)
	}
}
