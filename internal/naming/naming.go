// Package naming generates and validates the identifiers volsaga hands out:
// entity ids, generated volume names and dataset paths.
package naming

import (
	"crypto/rand"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefixes of generated entity ids.
const (
	VolumeIDPrefix       = "vol-"
	VolumeRecordIDPrefix = "vr-"
	OperateLogIDPrefix   = "saga-"
)

// NewID returns prefix followed by a random UUID.
func NewID(prefix string) string {
	return prefix + uuid.NewString()
}

const (
	compactTimeLen = 7 // base36 seconds, good until year ~4454
	compactRandLen = 5
)

// NewCompactID returns a 12 character lowercase base36 id whose first seven
// characters encode the creation second, so ids sort by time.
func NewCompactID() (string, error) {
	return compactIDAt(time.Now().UTC())
}

func compactIDAt(t time.Time) (string, error) {
	ts := t.Unix()
	if ts < 0 || ts >= pow36(compactTimeLen) {
		return "", fmt.Errorf("timestamp %d out of range for compact id", ts)
	}
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	r := (int64(b[0])<<16 | int64(b[1])<<8 | int64(b[2])) % pow36(compactRandLen)
	return padBase36(ts, compactTimeLen) + padBase36(r, compactRandLen), nil
}

func pow36(n int) int64 {
	p := int64(1)
	for range n {
		p *= 36
	}
	return p
}

func padBase36(v int64, width int) string {
	s := strconv.FormatInt(v, 36)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// NewVolumeName generates a volume name of the form <type>-<compact id>.
// The type is lowercased and stripped of characters Docker rejects.
func NewVolumeName(volumeType string) (string, error) {
	id, err := NewCompactID()
	if err != nil {
		return "", err
	}
	prefix := sanitize(strings.ToLower(volumeType))
	if prefix == "" {
		prefix = "vol"
	}
	return prefix + "-" + id, nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isNameChar(r) {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_.-")
}

// DatasetPath returns the dataset backing a user's volume under root.
func DatasetPath(root, userID, volumeName string) string {
	return path.Join(root, userID, volumeName)
}
