package fileops

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"fsbridge/internal/pathspec"
)

func testOps() *Ops {
	return New(OSFilesystem{})
}

func mustResolve(t *testing.T, raw string) pathspec.PathSpec {
	t.Helper()
	spec, err := pathspec.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", raw, err)
	}
	return spec
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestCatStreamsLines verifies exact content comes back line by line
func TestCatStreamsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	mustWrite(t, path, "alpha\nbeta\ngamma\n")

	it, err := testOps().Cat(mustResolve(t, path))
	if err != nil {
		t.Fatalf("Cat failed: %v", err)
	}
	defer it.Close()

	var lines []string
	for it.Next() {
		lines = append(lines, it.Text())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration error: %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, expected %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], want[i])
		}
	}
}

// TestCatMissingFile verifies the not_found classification
func TestCatMissingFile(t *testing.T) {
	_, err := testOps().Cat(mustResolve(t, filepath.Join(t.TempDir(), "nope.txt")))
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindNotFound)
	}
}

// TestCatDirectory verifies directories are refused with is_a_directory
func TestCatDirectory(t *testing.T) {
	_, err := testOps().Cat(mustResolve(t, t.TempDir()))
	if KindOf(err) != KindIsADirectory {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindIsADirectory)
	}
}

// TestCatCloseReleasesHandle verifies an abandoned iteration can be
// followed by a rename of the same file
func TestCatCloseReleasesHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	mustWrite(t, path, "one\ntwo\n")

	it, err := testOps().Cat(mustResolve(t, path))
	if err != nil {
		t.Fatalf("Cat failed: %v", err)
	}
	it.Next()
	if err := it.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if err := os.Rename(path, filepath.Join(dir, "b.txt")); err != nil {
		t.Errorf("rename after Close failed: %v", err)
	}
}

// TestCatAllRespectsLimit verifies buffered reads refuse oversized files
func TestCatAllRespectsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	mustWrite(t, path, "0123456789")

	o := testOps()
	o.CatBufferLimit = 5
	if _, err := o.CatAll(mustResolve(t, path)); err == nil {
		t.Error("CatAll should refuse a file over the buffer limit")
	}

	o.CatBufferLimit = DefaultCatBufferLimit
	lines, err := o.CatAll(mustResolve(t, path))
	if err != nil {
		t.Fatalf("CatAll failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "0123456789" {
		t.Errorf("lines = %v", lines)
	}
}

// TestLsDirectory verifies plain listing content
func TestLsDirectory(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "aa")
	mustWrite(t, filepath.Join(dir, "b.log"), "b")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := testOps().Ls(mustResolve(t, dir), LsOptions{})
	if err != nil {
		t.Fatalf("Ls failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, expected 3", len(entries))
	}

	byName := make(map[string]Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	if byName["a.txt"].Kind != pathspec.File || byName["a.txt"].Size != 2 {
		t.Errorf("a.txt entry = %+v", byName["a.txt"])
	}
	if byName["sub"].Kind != pathspec.Directory {
		t.Errorf("sub entry = %+v", byName["sub"])
	}
}

// TestLsFileYieldsSelf verifies a file target is a one-entry summary,
// not an error
func TestLsFileYieldsSelf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solo.txt")
	mustWrite(t, path, "xyz")

	entries, err := testOps().Ls(mustResolve(t, path), LsOptions{})
	if err != nil {
		t.Fatalf("Ls failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, expected 1", len(entries))
	}
	if entries[0].Name != "solo.txt" || entries[0].Size != 3 {
		t.Errorf("entry = %+v", entries[0])
	}
}

// TestLsPattern verifies glob filtering on entry names
func TestLsPattern(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "")
	mustWrite(t, filepath.Join(dir, "b.txt"), "")
	mustWrite(t, filepath.Join(dir, "c.log"), "")

	entries, err := testOps().Ls(mustResolve(t, dir), LsOptions{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("Ls failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, expected 2", len(entries))
	}
}

// TestLsBadPattern verifies malformed globs classify as invalid_path
func TestLsBadPattern(t *testing.T) {
	_, err := testOps().Ls(mustResolve(t, t.TempDir()), LsOptions{Pattern: "[unclosed"})
	if KindOf(err) != KindInvalidPath {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindInvalidPath)
	}
}

// TestLsRecursive verifies the subtree walk with relative names
func TestLsRecursive(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(dir, "top.txt"), "")
	mustWrite(t, filepath.Join(dir, "sub", "mid.txt"), "")
	mustWrite(t, filepath.Join(dir, "sub", "deep", "leaf.txt"), "")

	entries, err := testOps().Ls(mustResolve(t, dir), LsOptions{Recursive: true, Pattern: "**/*.txt"})
	if err != nil {
		t.Fatalf("Ls failed: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	want := []string{"sub/deep/leaf.txt", "sub/mid.txt", "top.txt"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, expected %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, expected %s", i, names[i], want[i])
		}
	}
}

// TestLsMissing verifies absent paths classify as not_found
func TestLsMissing(t *testing.T) {
	_, err := testOps().Ls(mustResolve(t, filepath.Join(t.TempDir(), "ghost")), LsOptions{})
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindNotFound)
	}
}

// TestTouchCreates verifies a missing path becomes an empty file
func TestTouchCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")

	if err := testOps().Touch(mustResolve(t, path)); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file missing after Touch: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, expected 0", info.Size())
	}
}

// TestTouchBumpsTime verifies existing content survives and mtime moves
func TestTouchBumpsTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.txt")
	mustWrite(t, path, "keep me")

	past := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	if err := testOps().Touch(mustResolve(t, path)); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "keep me" {
		t.Errorf("content = %q, Touch must not alter content", content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().After(past) {
		t.Errorf("mtime %v not bumped past %v", info.ModTime(), past)
	}
}

// TestMkdir verifies creation, idempotency, and the file collision case
func TestMkdir(t *testing.T) {
	dir := t.TempDir()
	o := testOps()

	nested := filepath.Join(dir, "a", "b", "c")
	if err := o.Mkdir(mustResolve(t, nested)); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	info, err := os.Stat(nested)
	if err != nil || !info.IsDir() {
		t.Fatalf("nested dir missing: %v", err)
	}

	// Existing directory is a success
	if err := o.Mkdir(mustResolve(t, nested)); err != nil {
		t.Errorf("Mkdir on existing dir failed: %v", err)
	}

	// Existing file is not
	filePath := filepath.Join(dir, "f.txt")
	mustWrite(t, filePath, "")
	if err := o.Mkdir(mustResolve(t, filePath)); KindOf(err) != KindNotADirectory {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindNotADirectory)
	}
}

// TestStat verifies the metadata payload including MIME detection
func TestStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	mustWrite(t, path, "plain text content\n")

	info, err := testOps().Stat(mustResolve(t, path))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name != "doc.txt" {
		t.Errorf("Name = %s", info.Name)
	}
	if info.Kind != pathspec.File {
		t.Errorf("Kind = %s", info.Kind)
	}
	if info.Size != int64(len("plain text content\n")) {
		t.Errorf("Size = %d", info.Size)
	}
	if info.MIME == "" {
		t.Error("MIME should be detected for a regular file")
	}
	if info.TotalBytes == 0 {
		t.Error("TotalBytes should be populated from volume stats")
	}
	if info.FreeBytes > info.TotalBytes {
		t.Errorf("FreeBytes %d > TotalBytes %d", info.FreeBytes, info.TotalBytes)
	}
}

// TestStatMissing verifies absent paths classify as not_found
func TestStatMissing(t *testing.T) {
	_, err := testOps().Stat(mustResolve(t, filepath.Join(t.TempDir(), "ghost")))
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %s, expected %s", KindOf(err), KindNotFound)
	}
}
