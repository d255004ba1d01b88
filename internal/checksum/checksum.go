// Package checksum provides the digest primitives the save format depends on.
//
// The game stores an MD5 digest of the save header region and rejects files
// where it does not match, so the algorithm here is fixed by the format and
// must never change.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
)

// Size is the digest length in bytes.
const Size = md5.Size

// Sum computes the MD5 digest of data.
func Sum(data []byte) [Size]byte {
	return md5.Sum(data)
}

// Hex formats a digest as a lowercase hexadecimal string, the form used for
// comparison and logging.
func Hex(sum []byte) string {
	return hex.EncodeToString(sum)
}
