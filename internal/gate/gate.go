package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fsbridge/internal/fileops"
	"fsbridge/internal/pathspec"
)

// Decision is the gate's verdict on a destructive request
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the permitting decision
var Allow = Decision{Allowed: true}

// Deny refuses with a reason the caller can surface
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Gate authorizes destructive operations: rm always, and cp/mv whenever
// they would overwrite an existing destination. Force lifts the
// confirmation requirement but never the safety rails — protected paths,
// allowed-root confinement, traversal, and symlink escapes deny
// regardless of force.
type Gate struct {
	allowedRoots []string
	protected    []string
}

// New creates a gate. allowedRoots confines destructive targets when
// non-empty; an empty slice means no confinement. extraProtected extends
// the built-in protected set.
func New(allowedRoots, extraProtected []string) *Gate {
	return &Gate{
		allowedRoots: normalizeRoots(allowedRoots),
		protected:    defaultProtected(extraProtected),
	}
}

// Authorize decides whether the request proceeds. Non-destructive verbs
// always pass. A denial is a policy outcome, never an error.
func (g *Gate) Authorize(req fileops.Request) Decision {
	target, confirmation := g.destructiveTarget(req)
	if target == nil {
		return Allow
	}

	// Safety rails first: these hold even under force
	if target.Traversal {
		return Deny("path traversal in input")
	}
	if isProtected(target.Abs, g.protected) {
		return Deny(fmt.Sprintf("%s is a protected path", target.Abs))
	}
	if len(g.allowedRoots) > 0 {
		if !withinRoots(target.Abs, g.allowedRoots) {
			return Deny(fmt.Sprintf("%s is outside the allowed roots", target.Abs))
		}
		if escapesRoots(target.Abs, g.allowedRoots) {
			return Deny(fmt.Sprintf("%s resolves outside the allowed roots", target.Abs))
		}
	}

	if req.Force {
		return Allow
	}
	return Deny(confirmation)
}

// destructiveTarget returns the path a destructive request would damage,
// plus the confirmation message shown when force is missing. Nil means
// the request is not destructive.
func (g *Gate) destructiveTarget(req fileops.Request) (*pathspec.PathSpec, string) {
	switch req.Verb {
	case fileops.VerbRm:
		return &req.Source, "removal requires force"
	case fileops.VerbCp, fileops.VerbMv:
		if req.Dest == nil {
			return nil, ""
		}
		if req.Dest.Exists && req.Dest.Kind == pathspec.Directory {
			// Copying or moving into a directory lands the source under
			// it, so the overwrite check probes the resolved target
			joined := filepath.Join(req.Dest.Abs, filepath.Base(req.Source.Abs))
			info, err := os.Lstat(joined)
			if err != nil || info.IsDir() {
				return nil, ""
			}
			kind := pathspec.File
			if info.Mode()&os.ModeSymlink != 0 {
				kind = pathspec.Symlink
			}
			target := &pathspec.PathSpec{
				Raw:       req.Dest.Raw,
				Abs:       joined,
				Exists:    true,
				Kind:      kind,
				Traversal: req.Dest.Traversal,
			}
			return target, "destination exists; pass force to overwrite"
		}
		if req.Dest.Exists {
			return req.Dest, "destination exists; pass force to overwrite"
		}
	}
	return nil, ""
}

func isProtected(path string, protected []string) bool {
	p := filepath.Clean(path)
	if p == string(os.PathSeparator) {
		return true
	}
	for _, prot := range protected {
		if hasPathPrefix(p, filepath.Clean(prot)) {
			return true
		}
	}
	return false
}

func withinRoots(path string, roots []string) bool {
	p := filepath.Clean(path)
	for _, r := range roots {
		if hasPathPrefix(p, r) {
			return true
		}
	}
	return false
}

// escapesRoots resolves symlinks and checks whether the real location
// falls outside every allowed root. A path that cannot be resolved
// (typically not yet existing) does not count as an escape; the
// operation on it will fail on its own if the path is truly absent.
func escapesRoots(path string, roots []string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return false
	}
	return !withinRoots(filepath.Clean(abs), roots)
}

func hasPathPrefix(path, prefix string) bool {
	if prefix == string(os.PathSeparator) {
		return path == prefix
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		out = append(out, filepath.Clean(abs))
	}
	return out
}

func defaultProtected(extra []string) []string {
	base := []string{
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
		"/var/lib/fsbridge",
		"/etc/fsbridge",
	}
	return append(base, extra...)
}
