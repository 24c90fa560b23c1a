package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "volsaga-"
	fileSuffix = ".log"
)

// Output is an opened log destination.
type Output struct {
	Path string // empty unless logging to a file
	w    io.Writer
	f    *os.File
}

// OpenOutput resolves dest relative to dir:
//
//	"-"     stderr
//	"none"  discarded
//	""      new volsaga-<timestamp>.log in dir
//	path    that file, appended to; relative paths are joined to dir
func OpenOutput(dest, dir string, now time.Time) (*Output, error) {
	switch strings.ToLower(dest) {
	case "-":
		return &Output{w: os.Stderr}, nil
	case "none":
		return &Output{w: io.Discard}, nil
	case "":
		dest = filepath.Join(dir, FileName(now))
	default:
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(dir, dest)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory for %q: %w", dest, err)
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", dest, err)
	}
	return &Output{Path: dest, w: f, f: f}, nil
}

func (o *Output) Writer() io.Writer { return o.w }

// Close closes the file, if any. It is safe on a nil Output.
func (o *Output) Close() error {
	if o == nil || o.f == nil {
		return nil
	}
	return o.f.Close()
}

// FileName returns volsaga-YYYYMMDD-HHMMSS-mmm.log for t in UTC.
func FileName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%s-%03d%s", filePrefix, t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond), fileSuffix)
}

// Prune deletes volsaga log files in dir last modified more than
// retentionDays before now and returns the names it removed. A missing dir
// or a non-positive retention is a no-op.
func Prune(dir string, retentionDays int, now time.Time) ([]string, error) {
	if dir == "" || retentionDays <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, name)) == nil {
			removed = append(removed, name)
		}
	}
	return removed, nil
}
