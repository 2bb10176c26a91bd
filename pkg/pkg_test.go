package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "cfgx" {
		t.Errorf("Expected Name to be %q, got %q", "cfgx", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/cfgx", "cfgx"},
		{"/tmp/__debug_bin1234", Name},
		{"/home/me/.cfgx", "cfgx"},
		{"/opt/xmlgen", "xmlgen"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := prefixOf(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDirs_EndWithPrefix(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end with %q", name, dir, Prefix())
		}
	}
}
