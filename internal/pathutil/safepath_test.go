package pathutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/JamesPrial/gift-tracker/internal/pathutil"
)

func Test_ResolveSafePath_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T, baseDir string)
		userPath   func(baseDir string) string
		wantErr    bool
		wantEscape bool
		wantSuffix string
	}{
		{
			name:       "relative state file",
			userPath:   func(string) string { return "state.json" },
			wantSuffix: "state.json",
		},
		{
			name: "relative nested path in existing dir",
			setup: func(t *testing.T, baseDir string) {
				mustMkdirAll(t, filepath.Join(baseDir, "backups"))
			},
			userPath:   func(string) string { return "backups/state.json" },
			wantSuffix: filepath.Join("backups", "state.json"),
		},
		{
			name:       "nested path whose dirs do not exist yet",
			userPath:   func(string) string { return "a/b/c/state.db" },
			wantSuffix: filepath.Join("a", "b", "c", "state.db"),
		},
		{
			name:       "absolute path inside base",
			userPath:   func(baseDir string) string { return filepath.Join(baseDir, "state.json") },
			wantSuffix: "state.json",
		},
		{
			name:       "dot segments that stay inside",
			userPath:   func(string) string { return "x/../state.json" },
			wantSuffix: "state.json",
		},
		{
			name:       "parent traversal",
			userPath:   func(string) string { return "../../etc/evil.json" },
			wantErr:    true,
			wantEscape: true,
		},
		{
			name:       "complex traversal",
			userPath:   func(string) string { return "sub/../.././../escape.json" },
			wantErr:    true,
			wantEscape: true,
		},
		{
			name:     "empty",
			userPath: func(string) string { return "" },
			wantErr:  true,
		},
		{
			name:     "whitespace only",
			userPath: func(string) string { return "   " },
			wantErr:  true,
		},
		{
			name:     "null byte",
			userPath: func(string) string { return "state\x00.json" },
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			baseDir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, baseDir)
			}

			got, err := pathutil.ResolveSafePath(baseDir, tt.userPath(baseDir))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveSafePath() expected error, got %q", got)
				}
				if tt.wantEscape && !errors.Is(err, pathutil.ErrEscapesBase) {
					t.Errorf("ResolveSafePath() error = %v, want ErrEscapesBase", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSafePath() unexpected error: %v", err)
			}

			resolvedBase, err := filepath.EvalSymlinks(baseDir)
			if err != nil {
				t.Fatalf("failed to resolve base dir: %v", err)
			}
			if !strings.HasPrefix(got, resolvedBase) {
				t.Errorf("result %q is not within %q", got, resolvedBase)
			}
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("result %q does not end with %q", got, tt.wantSuffix)
			}
		})
	}
}

func Test_ResolveSafePath_AbsoluteOutsideBase(t *testing.T) {
	t.Parallel()
	baseDir := t.TempDir()
	outside := t.TempDir()

	_, err := pathutil.ResolveSafePath(baseDir, filepath.Join(outside, "state.json"))
	if !errors.Is(err, pathutil.ErrEscapesBase) {
		t.Errorf("ResolveSafePath() error = %v, want ErrEscapesBase", err)
	}
}

func Test_ResolveSafePath_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}
	t.Parallel()

	baseDir := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(baseDir, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	_, err := pathutil.ResolveSafePath(baseDir, "link/state.json")
	if !errors.Is(err, pathutil.ErrEscapesBase) {
		t.Errorf("ResolveSafePath() through escaping symlink error = %v, want ErrEscapesBase", err)
	}
}

func Test_ResolveSafePath_BaseDirNotCreatedYet(t *testing.T) {
	t.Parallel()
	baseDir := filepath.Join(t.TempDir(), ".gift")

	got, err := pathutil.ResolveSafePath(baseDir, "state.json")
	if err != nil {
		t.Fatalf("ResolveSafePath() unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(".gift", "state.json")) {
		t.Errorf("result %q does not end with .gift/state.json", got)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", path, err)
	}
}
