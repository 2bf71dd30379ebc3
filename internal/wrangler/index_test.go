package wrangler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeIndexFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestParseIndex_ElementList(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "element-list", "net.imglib2\nnet.imglib2.img\n")

	packages, err := ParseIndex(dir)
	if err != nil {
		t.Fatalf("ParseIndex failed: %v", err)
	}
	want := []string{"net.imglib2", "net.imglib2.img"}
	if !reflect.DeepEqual(packages, want) {
		t.Errorf("packages = %v, want %v", packages, want)
	}
}

func TestParseIndex_PreferElementList(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "element-list", "org.scijava\n")
	writeIndexFile(t, dir, "package-list", "org.other\n")

	packages, err := ParseIndex(dir)
	if err != nil {
		t.Fatalf("ParseIndex failed: %v", err)
	}
	if !reflect.DeepEqual(packages, []string{"org.scijava"}) {
		t.Errorf("packages = %v, want element-list content", packages)
	}
}

func TestParseIndex_PackageListFallback(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "package-list", "org.scijava\norg.scijava.command\n")

	packages, err := ParseIndex(dir)
	if err != nil {
		t.Fatalf("ParseIndex failed: %v", err)
	}
	if len(packages) != 2 {
		t.Errorf("packages = %v, want 2 entries", packages)
	}
}

func TestParseIndex_SortsAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "element-list", "z.pkg\na.pkg\nz.pkg\n\n")

	packages, err := ParseIndex(dir)
	if err != nil {
		t.Fatalf("ParseIndex failed: %v", err)
	}
	if !reflect.DeepEqual(packages, []string{"a.pkg", "z.pkg"}) {
		t.Errorf("packages = %v, want sorted de-duplicated", packages)
	}
}

func TestParseIndex_SkipsModuleLines(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "element-list", "module:java.base\nnet.imglib2\n")

	packages, err := ParseIndex(dir)
	if err != nil {
		t.Fatalf("ParseIndex failed: %v", err)
	}
	if !reflect.DeepEqual(packages, []string{"net.imglib2"}) {
		t.Errorf("packages = %v", packages)
	}
}

func TestParseIndex_Missing(t *testing.T) {
	if _, err := ParseIndex(t.TempDir()); !errors.Is(err, ErrMissingIndex) {
		t.Errorf("error = %v, want ErrMissingIndex", err)
	}
}

func TestParseIndex_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "element-list", "net.imglib2\nnot a package!\n")

	_, err := ParseIndex(dir)
	var malformed *MalformedIndexError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedIndexError", err)
	}
	if malformed.Line != 2 || malformed.Entry != "not a package!" {
		t.Errorf("MalformedIndexError = %+v", malformed)
	}
}

func TestPackagePath(t *testing.T) {
	if got := PackagePath("net.imglib2.img"); got != "net/imglib2/img" {
		t.Errorf("PackagePath = %q", got)
	}
}
