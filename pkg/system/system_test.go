package system

import (
	"bytes"
	"context"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "plain",
			cmd:  NewCommand("apk", "del", ".build-deps"),
			want: "apk del .build-deps",
		},
		{
			name: "equals sign is quoted",
			cmd:  NewCommand("docker-php-ext-configure", "gd", "--with-png-dir=/usr/include/"),
			want: "docker-php-ext-configure gd '--with-png-dir=/usr/include/'",
		},
		{
			name: "hash is quoted",
			cmd:  NewCommand("scanelf", "--format", "%n#p"),
			want: "scanelf --format '%n#p'",
		},
		{
			name: "spaces are quoted",
			cmd:  NewCommand("apk", "add", "a b"),
			want: "apk add 'a b'",
		},
		{
			name: "empty argument",
			cmd:  NewCommand("echo", ""),
			want: "echo ''",
		},
		{
			name: "no arguments",
			cmd:  NewCommand("true"),
			want: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDryRunner(t *testing.T) {
	var buf bytes.Buffer
	r := &DryRunner{W: &buf, Outputs: map[string]string{"scanelf": "libz.so.1"}}
	ctx := context.Background()

	if err := r.Run(ctx, NewCommand("apk", "del", ".build-deps")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out, err := r.Output(ctx, NewCommand("scanelf", "--needed"))
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != "libz.so.1" {
		t.Errorf("Output() = %q, want canned output", out)
	}

	if got := len(r.Commands()); got != 2 {
		t.Errorf("len(Commands()) = %d, want 2", got)
	}
	if want := "apk del .build-deps\nscanelf --needed\n"; buf.String() != want {
		t.Errorf("printed %q, want %q", buf.String(), want)
	}
}

func TestSplitScanelf(t *testing.T) {
	input := `
libedit.so.0,libcurl.so.4,libz.so.1,libxml2.so.2,libssl.so.45,libcrypto.so.43,libc.musl-x86_64.so.1
libc.musl-x86_64.so.1
libpng16.so.16,libz.so.1,libjpeg.so.8,libfreetype.so.6,libc.musl-x86_64.so.1
libz.so.1,libc.musl-x86_64.so.1
libedit.so.0,libcurl.so.4,libz.so.1,libxml2.so.2,libssl.so.45,libcrypto.so.43,libc.musl-x86_64.so.1
`
	want := []string{
		"libc.musl-x86_64.so.1",
		"libcrypto.so.43",
		"libcurl.so.4",
		"libedit.so.0",
		"libfreetype.so.6",
		"libjpeg.so.8",
		"libpng16.so.16",
		"libssl.so.45",
		"libxml2.so.2",
		"libz.so.1",
	}

	if got := SplitScanelf(input); !reflect.DeepEqual(got, want) {
		t.Errorf("SplitScanelf() = %q, want %q", got, want)
	}
	if got := SplitScanelf(" \n"); len(got) != 0 {
		t.Errorf("SplitScanelf(blank) = %q, want empty", got)
	}
}

func TestApkInstall(t *testing.T) {
	r := &DryRunner{}
	apk := NewApk(r)

	if err := apk.Install(context.Background(), []string{"autoconf", "icu-dev"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	want := []Command{NewCommand("apk", "add", "--no-cache", "--virtual", ".build-deps", "autoconf", "icu-dev")}
	if got := r.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestApkSaveRuntimeDeps(t *testing.T) {
	r := &DryRunner{Outputs: map[string]string{
		"scanelf": "libmemcached.so.11,libz.so.1,libphp.so\nlibz.so.1,libc.musl-x86_64.so.1\n",
	}}
	apk := NewApk(r)
	apk.Exists = func(path string) bool { return path == "/usr/local/lib/libphp.so" }

	if err := apk.SaveRuntimeDeps(context.Background()); err != nil {
		t.Fatalf("SaveRuntimeDeps() error = %v", err)
	}

	want := []Command{
		NewCommand("scanelf", "--needed", "--nobanner", "--format", "%n#p", "--recursive", "/usr/local"),
		NewCommand("apk", "add", "--virtual", ".docker-phpexts-rundeps",
			"so:libc.musl-x86_64.so.1", "so:libmemcached.so.11", "so:libz.so.1"),
	}
	if got := r.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v\nwant %v", got, want)
	}
}

func TestApkSaveRuntimeDepsNothingToSave(t *testing.T) {
	r := &DryRunner{Outputs: map[string]string{"scanelf": "libphp.so\n"}}
	apk := NewApk(r)
	apk.Exists = func(string) bool { return true }

	if err := apk.SaveRuntimeDeps(context.Background()); err != nil {
		t.Fatalf("SaveRuntimeDeps() error = %v", err)
	}
	if got := r.Commands(); len(got) != 1 || got[0].Program != "scanelf" {
		t.Errorf("commands = %v, want only scanelf", got)
	}
}

func TestApkRemoveBuildDeps(t *testing.T) {
	r := &DryRunner{}
	if err := NewApk(r).RemoveBuildDeps(context.Background()); err != nil {
		t.Fatalf("RemoveBuildDeps() error = %v", err)
	}
	want := []Command{NewCommand("apk", "del", ".build-deps")}
	if got := r.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestPHP(t *testing.T) {
	r := &DryRunner{}
	php := NewPHP(r, 4)
	ctx := context.Background()

	steps := []func() error{
		func() error { return php.Configure(ctx, "ldap", []string{"--with-ldap", "--with-ldap-sasl"}) },
		func() error { return php.Install(ctx, []string{"gd", "ldap"}) },
		func() error { return php.Install(ctx, nil) },
		func() error { return php.PeclInstall(ctx, "xdebug-2.5.5") },
		func() error { return php.Enable(ctx, "memcached") },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step error = %v", err)
		}
	}

	want := []Command{
		NewCommand("docker-php-ext-configure", "ldap", "--with-ldap", "--with-ldap-sasl"),
		NewCommand("docker-php-ext-install", "-j", "4", "gd", "ldap"),
		NewCommand("pecl", "install", "xdebug-2.5.5"),
		NewCommand("docker-php-ext-enable", "memcached"),
	}
	if got := r.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v\nwant %v", got, want)
	}
}

func TestPHPDefaultJobs(t *testing.T) {
	cmd := NewPHP(&DryRunner{}, 0).InstallCommand([]string{"gd"})
	if cmd.Args[0] != "-j" || cmd.Args[1] == "0" || cmd.Args[1] == "" {
		t.Errorf("InstallCommand() args = %q, want -j <NumCPU>", cmd.Args)
	}
}

// TestHelperProcess is not a real test. It is re-executed by the ExecRunner
// tests as a stand-in child process.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("F1_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("F1_HELPER_MODE") {
	case "ok":
		os.Stdout.WriteString("libz.so.1\n")
		os.Exit(0)
	case "fail":
		os.Exit(3)
	case "binary":
		os.Stdout.Write([]byte{0xff, 0xfe, 0xfd})
		os.Exit(0)
	}
	os.Exit(2)
}

func helperCommand(t *testing.T, mode string) Command {
	t.Helper()
	t.Setenv("F1_WANT_HELPER_PROCESS", "1")
	t.Setenv("F1_HELPER_MODE", mode)
	return NewCommand(os.Args[0], "-test.run=TestHelperProcess")
}

func newTestRunner() *ExecRunner {
	var out bytes.Buffer
	return &ExecRunner{Stdout: &out, Stderr: &out, Logger: log.New(&out)}
}

func TestExecRunnerOutput(t *testing.T) {
	out, err := newTestRunner().Output(context.Background(), helperCommand(t, "ok"))
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if strings.TrimSpace(out) != "libz.so.1" {
		t.Errorf("Output() = %q, want libz.so.1", out)
	}
}

func TestExecRunnerErrors(t *testing.T) {
	tests := []struct {
		name   string
		cmd    func(t *testing.T) Command
		output bool
		code   errors.Code
		detail string
	}{
		{
			name:   "missing program",
			cmd:    func(*testing.T) Command { return NewCommand("f1-ext-install-no-such-program", "arg") },
			code:   errors.ErrCodeCommandIO,
			detail: "f1-ext-install-no-such-program arg",
		},
		{
			name:   "non-zero exit",
			cmd:    func(t *testing.T) Command { return helperCommand(t, "fail") },
			code:   errors.ErrCodeCommandExit,
			detail: "non-zero exit code 3",
		},
		{
			name:   "invalid utf-8",
			cmd:    func(t *testing.T) Command { return helperCommand(t, "binary") },
			output: true,
			code:   errors.ErrCodeCommandOutput,
			detail: "not valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner()
			cmd := tt.cmd(t)

			var err error
			if tt.output {
				_, err = r.Output(context.Background(), cmd)
			} else {
				err = r.Run(context.Background(), cmd)
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", got, tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q should contain %q", err, tt.detail)
			}
		})
	}
}

func TestExecRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestRunner().Run(ctx, helperCommand(t, "ok"))
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, errors.ErrCodeCommandExit) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeCommandExit)
	}
	if !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("error %q should mention cancellation", err)
	}
}
