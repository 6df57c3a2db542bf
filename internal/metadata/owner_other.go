//go:build !unix

package metadata

import "io/fs"

// Ownership is not exposed through FileInfo on this platform.
func owner(fs.FileInfo) (uid, gid int64) {
	return -1, -1
}
