package cli

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/forumone/f1-ext-install/pkg/errors"
	"github.com/forumone/f1-ext-install/pkg/observability"
	"github.com/forumone/f1-ext-install/pkg/system"
)

type testCLI struct {
	cli    *CLI
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestCLI returns a CLI whose environment for extension metadata is env
// and whose output is captured.
func newTestCLI(t *testing.T, env map[string]string) *testCLI {
	t.Helper()
	t.Setenv("PHPIZE_DEPS", "")
	t.Cleanup(observability.Reset)

	tc := &testCLI{}
	tc.cli = New(&tc.stderr, log.InfoLevel)
	tc.cli.LookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return tc
}

func (tc *testCLI) run(args ...string) error {
	root := tc.cli.RootCommand()
	root.SetOut(&tc.stdout)
	root.SetErr(&tc.stderr)
	root.SetArgs(args)
	return root.Execute()
}

func TestInstall(t *testing.T) {
	tc := newTestCLI(t, nil)
	runner := &system.DryRunner{}
	tc.cli.Runner = runner

	if err := tc.run("-j", "2", "builtin:opcache", "builtin:intl"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := []system.Command{
		system.NewCommand("apk", "add", "--no-cache", "--virtual", ".build-deps", "icu-dev"),
		system.NewCommand("docker-php-ext-install", "-j", "2", "opcache", "intl"),
		system.NewCommand("scanelf", "--needed", "--nobanner", "--format", "%n#p", "--recursive", "/usr/local"),
		system.NewCommand("apk", "del", ".build-deps"),
	}
	if got := runner.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v\nwant %v", got, want)
	}
	if !strings.Contains(tc.stderr.String(), "Installed builtin:opcache builtin:intl") {
		t.Errorf("stderr should report success, got:\n%s", tc.stderr.String())
	}
}

func TestInstallPhpizeDeps(t *testing.T) {
	tc := newTestCLI(t, nil)
	t.Setenv("PHPIZE_DEPS", "autoconf  file g++")
	runner := &system.DryRunner{}
	tc.cli.Runner = runner

	if err := tc.run("pecl:apcu"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	first := runner.Commands()[0]
	want := system.NewCommand("apk", "add", "--no-cache", "--virtual", ".build-deps", "autoconf", "file", "g++")
	if !reflect.DeepEqual(first, want) {
		t.Errorf("first command = %s, want %s", first, want)
	}
}

func TestInstallDryRun(t *testing.T) {
	tc := newTestCLI(t, nil)

	if err := tc.run("--dry-run", "builtin:gd", "pecl:xdebug@2.5.5"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := tc.stdout.String()
	for _, want := range []string{
		"apk add --no-cache --virtual .build-deps coreutils freetype-dev libjpeg-turbo-dev\n",
		"docker-php-ext-configure gd '--with-freetype-dir=/usr/include/'",
		"pecl install xdebug-2.5.5\n",
		"apk del .build-deps\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "docker-php-ext-enable") {
		t.Errorf("xdebug should not be enabled:\n%s", out)
	}
	if !strings.Contains(tc.stderr.String(), "dry run:") {
		t.Errorf("stderr should announce the dry run:\n%s", tc.stderr.String())
	}
}

func TestInstallEnvironmentMetadata(t *testing.T) {
	tc := newTestCLI(t, map[string]string{
		"F1_PECL_APCU_PACKAGES":              "pcre-dev, ",
		"F1_BUILTIN_PDO_PGSQL_PACKAGES":      "postgresql-dev",
		"F1_BUILTIN_PDO_PGSQL_CONFIGURE_CMD": "--with-pdo-pgsql",
	})
	runner := &system.DryRunner{}
	tc.cli.Runner = runner

	if err := tc.run("-j", "1", "builtin:pdo_pgsql", "pecl:apcu"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	cmds := runner.Commands()
	want := []system.Command{
		system.NewCommand("apk", "add", "--no-cache", "--virtual", ".build-deps", "postgresql-dev", "pcre-dev"),
		system.NewCommand("docker-php-ext-configure", "pdo_pgsql", "--with-pdo-pgsql"),
		system.NewCommand("docker-php-ext-install", "-j", "1", "pdo_pgsql"),
		system.NewCommand("pecl", "install", "apcu-stable"),
		system.NewCommand("docker-php-ext-enable", "apcu"),
	}
	if len(cmds) < len(want) || !reflect.DeepEqual(cmds[:len(want)], want) {
		t.Errorf("commands = %v\nwant prefix %v", cmds, want)
	}
}

func TestInstallErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing prefix", []string{"gd"}, errors.ErrCodeExpectedPrefix},
		{"bad name", []string{"builtin:gd", "builtin:9gd"}, errors.ErrCodeInvalidSyntax},
		{"bad version", []string{"pecl:xdebug@2.5"}, errors.ErrCodeInvalidSyntax},
		{"trailing input", []string{"pecl:xdebug@2.5.5-beta"}, errors.ErrCodeInvalidSyntax},
		{"zero jobs", []string{"-j", "0", "builtin:gd"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t, nil)
			runner := &system.DryRunner{}
			tc.cli.Runner = runner

			err := tc.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("run(%q) error = %v, want %s", tt.args, err, tt.code)
			}
			if n := len(runner.Commands()); n != 0 {
				t.Errorf("%d command(s) ran before the error was reported", n)
			}
		})
	}
}

func TestInstallRequiresSpecifier(t *testing.T) {
	tc := newTestCLI(t, nil)
	tc.cli.Runner = &system.DryRunner{}

	if err := tc.run(); err == nil {
		t.Error("run() with no specifiers should fail")
	}
}

func TestCompleteSpecifiers(t *testing.T) {
	got, _ := completeSpecifiers(nil, nil, "pecl:x")
	if !reflect.DeepEqual(got, []string{"pecl:xdebug"}) {
		t.Errorf("completeSpecifiers(pecl:x) = %q", got)
	}

	got, _ = completeSpecifiers(nil, nil, "")
	for _, want := range []string{"builtin:", "pecl:", "builtin:gd", "pecl:memcached"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("completeSpecifiers(\"\") missing %q", want)
		}
	}
}

// failingRunner records like a DryRunner but fails every command for one
// program.
type failingRunner struct {
	system.DryRunner
	program string
}

func (r *failingRunner) Run(ctx context.Context, cmd system.Command) error {
	_ = r.DryRunner.Run(ctx, cmd)
	if cmd.Program == r.program {
		return errors.New(errors.ErrCodeCommandExit, "%s: process exited unsuccessfully: non-zero exit code 1", cmd)
	}
	return nil
}

func TestInstallFailureReportedOnce(t *testing.T) {
	tc := newTestCLI(t, nil)
	runner := &failingRunner{program: "pecl"}
	tc.cli.Runner = runner

	err := tc.run("builtin:opcache", "pecl:xdebug")
	if !errors.Is(err, errors.ErrCodeCommandExit) {
		t.Fatalf("run() error = %v, want COMMAND_EXIT", err)
	}

	stderr := tc.stderr.String()
	if n := strings.Count(stderr, "pecl failed after"); n != 1 {
		t.Errorf("step failure printed %d times, want 1:\n%s", n, stderr)
	}
	if strings.Contains(stderr, "pecl install xdebug-stable") {
		t.Errorf("failed command echoed on stderr besides the returned error:\n%s", stderr)
	}
	if last := runner.Commands()[len(runner.Commands())-1]; last.Program != "pecl" {
		t.Errorf("commands continued after the failure: last = %s", last)
	}
}
