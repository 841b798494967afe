package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gopher "github.com/mrehanabbasi/gopher-parse-sitemap"
)

const catalogYAML = `articles:
  - id: a1
    slug: blog/one
  - id: a2
    slug: blog/two
  - id: a3
    slug: blog/three
  - id: a4
    slug: blog/gone
    disabled: true
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateSingleFile(t *testing.T) {
	out := t.TempDir()
	stdout, err := run(t, "generate", "--catalog", writeCatalog(t), "--base-url", "https://example.com/", "--out", out)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.Contains(stdout, "wrote 3 urls in 1 file(s)") {
		t.Errorf("stdout = %q", stdout)
	}

	doc, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	if err != nil {
		t.Fatal(err)
	}
	var locs []string
	if err := gopher.Parse(bytes.NewReader(doc), func(e gopher.Entry) error {
		locs = append(locs, e.GetLocation())
		return nil
	}); err != nil {
		t.Fatalf("gopher.Parse() error = %v", err)
	}
	want := []string{"https://example.com/blog/one", "https://example.com/blog/two", "https://example.com/blog/three"}
	if strings.Join(locs, " ") != strings.Join(want, " ") {
		t.Errorf("locations = %v, want %v", locs, want)
	}
	if _, err := os.Stat(filepath.Join(out, "sitemaps")); !os.IsNotExist(err) {
		t.Error("single-file feed should not write a sitemaps/ directory")
	}
}

func TestGenerateSplit(t *testing.T) {
	out := t.TempDir()
	if _, err := run(t, "generate", "--catalog", writeCatalog(t), "--base-url", "https://example.com", "--out", out, "--max-urls", "2"); err != nil {
		t.Fatalf("generate error = %v", err)
	}

	root, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	if err != nil {
		t.Fatal(err)
	}
	var parts []string
	if err := gopher.ParseIndex(bytes.NewReader(root), func(e gopher.IndexEntry) error {
		parts = append(parts, e.GetLocation())
		return nil
	}); err != nil {
		t.Fatalf("gopher.ParseIndex() error = %v", err)
	}
	if len(parts) != 2 || parts[1] != "https://example.com/sitemaps/2.xml" {
		t.Errorf("index parts = %v", parts)
	}
	for _, name := range []string{"1.xml", "2.xml"} {
		if _, err := os.Stat(filepath.Join(out, "sitemaps", name)); err != nil {
			t.Errorf("missing part %s: %v", name, err)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	catalog := writeCatalog(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing catalog", args: []string{"generate", "--base-url", "https://example.com"}, want: "--catalog"},
		{name: "bad base url", args: []string{"generate", "--catalog", catalog, "--base-url", "ftp://example.com"}, want: "--base-url"},
		{name: "unreadable catalog", args: []string{"generate", "--catalog", filepath.Join(t.TempDir(), "nope.yaml"), "--base-url", "https://example.com"}, want: "catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	stdout, err := run(t, "validate", writeCatalog(t))
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(stdout, "article  4 (3 active)") || !strings.Contains(stdout, "media    0 (0 active)") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestVersion(t *testing.T) {
	stdout, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "sitemapctl ") {
		t.Errorf("stdout = %q", stdout)
	}
}
