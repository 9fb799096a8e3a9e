package executor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsbridge/internal/fileops"
	"fsbridge/internal/gate"
	"fsbridge/internal/journal"
	"fsbridge/internal/pathspec"
)

func resolve(t *testing.T, raw string) pathspec.PathSpec {
	t.Helper()
	spec, err := pathspec.Resolve(raw)
	require.NoError(t, err)
	return spec
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// TestDryRunPerformsNoFilesystemCalls proves dry-run suppression at the
// syscall boundary, not just in the reported message
func TestDryRunPerformsNoFilesystemCalls(t *testing.T) {
	fake := &fileops.FakeFilesystem{}
	exec := New(fileops.New(fake), WithDryRun(true))

	src := pathspec.PathSpec{Raw: "/data/a", Abs: "/data/a", Exists: true, Kind: pathspec.File, Size: 100}
	dst := pathspec.PathSpec{Raw: "/data/b", Abs: "/data/b"}

	requests := []fileops.Request{
		{Verb: fileops.VerbRm, Source: src, Force: true},
		{Verb: fileops.VerbCp, Source: src, Dest: &dst, Force: true},
		{Verb: fileops.VerbMv, Source: src, Dest: &dst, Force: true},
		{Verb: fileops.VerbTouch, Source: src},
		{Verb: fileops.VerbMkdir, Source: dst},
	}

	for _, req := range requests {
		res := exec.Do(req)
		assert.Equal(t, fileops.OutcomeSuccess, res.Outcome, "verb %s", req.Verb)
		assert.True(t, res.DryRun, "verb %s", req.Verb)
	}

	assert.Empty(t, fake.MutatingCalls)
}

// TestDryRunPredictsFailure verifies a dry run on an impossible request
// reports the failure the real run would hit, still without touching
// the filesystem
func TestDryRunPredictsFailure(t *testing.T) {
	fake := &fileops.FakeFilesystem{}
	exec := New(fileops.New(fake), WithDryRun(true))

	missing := pathspec.PathSpec{Raw: "/gone", Abs: "/gone"}
	dst := pathspec.PathSpec{Raw: "/d", Abs: "/d"}

	res := exec.Do(fileops.Request{Verb: fileops.VerbRm, Source: missing, Force: true})
	assert.Equal(t, fileops.OutcomeFailed, res.Outcome)
	assert.Equal(t, fileops.KindNotFound, res.ErrKind)
	assert.True(t, res.DryRun)

	for _, verb := range []fileops.Verb{fileops.VerbCp, fileops.VerbMv} {
		res = exec.Do(fileops.Request{Verb: verb, Source: missing, Dest: &dst, Force: true})
		assert.Equal(t, fileops.OutcomeFailed, res.Outcome, "verb %s", verb)
		assert.Equal(t, fileops.KindSourceNotFound, res.ErrKind, "verb %s", verb)
	}

	assert.Empty(t, fake.MutatingCalls)
}

// TestDryRunStillReads verifies read verbs execute normally under dry-run
func TestDryRunStillReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "one\ntwo\n")

	var out bytes.Buffer
	exec := New(fileops.New(fileops.OSFilesystem{}), WithDryRun(true), WithOutput(&out))

	res := exec.Do(fileops.Request{Verb: fileops.VerbCat, Source: resolve(t, path)})
	assert.Equal(t, fileops.OutcomeSuccess, res.Outcome)
	assert.False(t, res.DryRun)
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, "one\ntwo\n", out.String())
}

// TestBlockedIsNotFailed verifies the gate refusal outcome and that the
// refused operation never reaches the filesystem
func TestBlockedIsNotFailed(t *testing.T) {
	fake := &fileops.FakeFilesystem{}
	g := gate.New(nil, nil)
	exec := New(fileops.New(fake), WithGate(g))

	src := pathspec.PathSpec{Raw: "/data/a", Abs: "/data/a", Exists: true, Kind: pathspec.File}
	res := exec.Do(fileops.Request{Verb: fileops.VerbRm, Source: src})

	assert.Equal(t, fileops.OutcomeBlocked, res.Outcome)
	assert.Equal(t, "removal requires force", res.Message)
	assert.Equal(t, fileops.KindNone, res.ErrKind)
	assert.Empty(t, fake.MutatingCalls)
}

// TestMissingDestFails verifies the two-path verbs refuse to run without
// a destination
func TestMissingDestFails(t *testing.T) {
	exec := New(fileops.New(&fileops.FakeFilesystem{}))

	src := pathspec.PathSpec{Raw: "/a", Abs: "/a", Exists: true, Kind: pathspec.File}
	for _, verb := range []fileops.Verb{fileops.VerbCp, fileops.VerbMv} {
		res := exec.Do(fileops.Request{Verb: verb, Source: src, Force: true})
		assert.Equal(t, fileops.OutcomeFailed, res.Outcome, "verb %s", verb)
		assert.Equal(t, fileops.KindInvalidPath, res.ErrKind, "verb %s", verb)
	}
}

// TestCopyRoundTrip runs a real copy through the full pipeline
func TestCopyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.txt")
	dstPath := filepath.Join(dir, "dst.txt")
	writeFile(t, srcPath, "payload")

	exec := New(fileops.New(fileops.OSFilesystem{}), WithGate(gate.New([]string{dir}, nil)))

	dst := resolve(t, dstPath)
	res := exec.Do(fileops.Request{
		Verb:   fileops.VerbCp,
		Source: resolve(t, srcPath),
		Dest:   &dst,
	})

	require.Equal(t, fileops.OutcomeSuccess, res.Outcome, res.Message)
	assert.Equal(t, int64(len("payload")), res.Bytes)

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	// Source must be untouched
	src, err := os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(src))
}

// TestCopyIntoDirectoryRequiresForce verifies a copy into a directory
// already holding a same-named file is blocked without force and the
// file under the directory is left intact
func TestCopyIntoDirectoryRequiresForce(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "a.txt")
	destDir := filepath.Join(dir, "dest")
	writeFile(t, srcPath, "new")
	require.NoError(t, os.Mkdir(destDir, 0755))
	victim := filepath.Join(destDir, "a.txt")
	writeFile(t, victim, "precious")

	exec := New(fileops.New(fileops.OSFilesystem{}), WithGate(gate.New([]string{dir}, nil)))

	dst := resolve(t, destDir)
	res := exec.Do(fileops.Request{Verb: fileops.VerbCp, Source: resolve(t, srcPath), Dest: &dst})
	assert.Equal(t, fileops.OutcomeBlocked, res.Outcome)

	got, err := os.ReadFile(victim)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(got))

	res = exec.Do(fileops.Request{Verb: fileops.VerbCp, Source: resolve(t, srcPath), Dest: &dst, Force: true})
	require.Equal(t, fileops.OutcomeSuccess, res.Outcome, res.Message)

	got, err = os.ReadFile(victim)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

// TestRemoveWithForce runs a gated removal end to end
func TestRemoveWithForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim.txt")
	writeFile(t, path, "bye")

	exec := New(fileops.New(fileops.OSFilesystem{}), WithGate(gate.New([]string{dir}, nil)))

	res := exec.Do(fileops.Request{Verb: fileops.VerbRm, Source: resolve(t, path), Force: true})
	require.Equal(t, fileops.OutcomeSuccess, res.Outcome, res.Message)
	assert.Equal(t, int64(3), res.Bytes)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

// TestFailedCarriesErrorKind verifies classification flows into the result
func TestFailedCarriesErrorKind(t *testing.T) {
	exec := New(fileops.New(fileops.OSFilesystem{}))

	missing := resolve(t, filepath.Join(t.TempDir(), "absent.txt"))
	res := exec.Do(fileops.Request{Verb: fileops.VerbCat, Source: missing})

	assert.Equal(t, fileops.OutcomeFailed, res.Outcome)
	assert.Equal(t, fileops.KindNotFound, res.ErrKind)
}

// TestJournalIntegration verifies every outcome lands in the journal
func TestJournalIntegration(t *testing.T) {
	dir := t.TempDir()
	j, err := journal.Open(filepath.Join(dir, "ops.db"))
	require.NoError(t, err)
	defer j.Close()

	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "x")

	exec := New(fileops.New(fileops.OSFilesystem{}),
		WithGate(gate.New([]string{dir}, nil)),
		WithJournal(j))

	exec.Do(fileops.Request{Verb: fileops.VerbStat, Source: resolve(t, path)})
	exec.Do(fileops.Request{Verb: fileops.VerbRm, Source: resolve(t, path)}) // blocked, no force

	records, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rm", records[0].Verb)
	assert.Equal(t, "blocked", records[0].Outcome)
	assert.Equal(t, "stat", records[1].Verb)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

// TestResultsAlwaysCarryID verifies every result gets a unique identifier
func TestResultsAlwaysCarryID(t *testing.T) {
	exec := New(fileops.New(&fileops.FakeFilesystem{}), WithDryRun(true))

	src := pathspec.PathSpec{Raw: "/a", Abs: "/a", Exists: true, Kind: pathspec.File}
	a := exec.Do(fileops.Request{Verb: fileops.VerbTouch, Source: src})
	b := exec.Do(fileops.Request{Verb: fileops.VerbTouch, Source: src})

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
