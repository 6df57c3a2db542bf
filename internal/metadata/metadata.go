// Package metadata renders the fixed stat summary shown in the right pane.
package metadata

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LFroesch/duo/internal/utils"
)

// MaxInfoBytes bounds the text returned by Describe.
const MaxInfoBytes = 256

// Unavailable is returned by Describe when the path cannot be stat'ed.
const Unavailable = "Error retrieving info"

// timeLayout matches the C library's ctime() output without the trailing newline.
const timeLayout = time.ANSIC

var statFn = os.Stat

// Describe returns one line per field: size, permissions, modification time,
// owner uid, owner gid and the directory flag. It never fails; lookup errors
// yield Unavailable.
func Describe(path string) string {
	info, err := statFn(path)
	if err != nil {
		return Unavailable
	}

	uid, gid := owner(info)
	isDir := "No"
	if info.IsDir() {
		isDir = "Yes"
	}

	fields := []string{
		fmt.Sprintf("Size: %d bytes (%s)", info.Size(), utils.FormatFileSize(info.Size())),
		fmt.Sprintf("Permissions: %o", info.Mode().Perm()),
		fmt.Sprintf("Last modified: %s", info.ModTime().Local().Format(timeLayout)),
		fmt.Sprintf("Owner UID: %d", uid),
		fmt.Sprintf("Owner GID: %d", gid),
		fmt.Sprintf("Is Directory: %s", isDir),
	}

	return bounded(fields, MaxInfoBytes)
}

// bounded joins fields with newlines, dropping whole trailing fields that
// would push the text past limit.
func bounded(fields []string, limit int) string {
	var b strings.Builder
	for _, field := range fields {
		if b.Len()+len(field)+1 > limit {
			break
		}
		b.WriteString(field)
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines splits Describe output into display rows, skipping empty ones.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
