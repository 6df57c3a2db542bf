package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Status is the git view of one directory listing
type Status struct {
	Branch   string
	Modified map[string]bool // absolute paths with uncommitted changes
}

// Lookup returns the branch and modified files for dir. Outside a
// repository, or without a git binary, it returns an empty Status.
func Lookup(dir string) Status {
	status := Status{Modified: make(map[string]bool)}
	if !inRepo(dir) {
		return status
	}
	status.Branch = GetBranch(dir)
	status.Modified = GetModifiedFiles(dir)
	return status
}

func inRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// GetModifiedFiles returns a map of modified files in a git repository
func GetModifiedFiles(dir string) map[string]bool {
	modified := make(map[string]bool)

	// Porcelain paths are relative to the repository root
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return modified
	}
	root := strings.TrimSpace(string(out))

	cmd = exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return modified
	}

	for _, line := range strings.Split(string(output), "\n") {
		if len(line) <= 3 {
			continue
		}
		// Status is in first two characters, filename starts at position 3
		filename := strings.TrimSpace(line[3:])
		if i := strings.Index(filename, " -> "); i >= 0 {
			filename = filename[i+len(" -> "):]
		}
		filename = strings.TrimSuffix(filename, "/")
		if filename == "" {
			continue
		}
		full := filepath.Join(root, filename)
		modified[full] = true
		// Mark parent directories so a changed file shows on its folder too
		for parent := filepath.Dir(full); strings.HasPrefix(parent, root) && parent != root; parent = filepath.Dir(parent) {
			modified[parent] = true
		}
	}

	return modified
}

// GetBranch returns the current git branch name
func GetBranch(dir string) string {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
