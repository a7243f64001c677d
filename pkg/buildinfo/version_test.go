package buildinfo

import (
	"reflect"
	"strings"
	"testing"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

func TestTagsFor(t *testing.T) {
	tests := []struct {
		version string
		want    []string
	}{
		{"1.2.3", []string{"1.2.3", "1.2", "1"}},
		{"v0.4.12", []string{"0.4.12", "0.4", "0"}},
		{"10.0.0", []string{"10.0.0", "10.0", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := TagsFor(tt.version)
			if err != nil {
				t.Fatalf("TagsFor() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TagsFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTagsForInvalid(t *testing.T) {
	for _, v := range []string{"dev", "", "1.2", "1.2.3.4", "1.2.x", "1.2.3-rc1", "vv1.2.3", "1..3"} {
		t.Run(v, func(t *testing.T) {
			_, err := TagsFor(v)
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("TagsFor(%q) error = %v, want INVALID_ARGUMENT", v, err)
			}
		})
	}
}

func TestTagsDevBuild(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "dev"
	if _, err := Tags(); err == nil {
		t.Error("Tags() should fail for a dev build")
	}

	Version = "v2.1.0"
	got, err := Tags()
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	if got[0] != "2.1.0" {
		t.Errorf("Tags()[0] = %q, want 2.1.0", got[0])
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}}") {
		t.Error("Template() should reference the command name")
	}
	if !strings.Contains(String(), Commit) {
		t.Error("String() should include the commit")
	}
}
