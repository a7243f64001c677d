// Package system wraps the external commands f1-ext-install drives: the
// Alpine package manager (apk, scanelf) and the PHP image toolchain (pecl,
// docker-php-ext-configure, docker-php-ext-install, docker-php-ext-enable).
//
// Commands are plain values run through a [Runner]. [ExecRunner] executes
// them; [DryRunner] only prints them, which also makes the command sequence
// easy to assert on in tests.
package system

import (
	"context"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a program and its arguments. It is not run through a shell.
type Command struct {
	Program string
	Args    []string
}

// NewCommand returns a Command for program with args.
func NewCommand(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// String renders the command as a POSIX shell line, quoting arguments where
// needed, e.g. `docker-php-ext-configure gd '--with-png-dir=/usr/include/'`.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Program))
	for _, arg := range c.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd with the standard streams attached and waits for it.
	Run(ctx context.Context, cmd Command) error

	// Output executes cmd and returns its standard output, which must be
	// valid UTF-8. Standard error is still shown to the user.
	Output(ctx context.Context, cmd Command) (string, error)
}
