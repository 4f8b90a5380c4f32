package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	appName       = "inboxkit"
	logFilePrefix = appName + "-"
	logFileExt    = ".log"
)

// logFileName names a process log file, e.g. inboxkit-20260310-120000-4242-feed.log.
func logFileName(started time.Time, pid int, command string) string {
	name := fmt.Sprintf("%s%s-%d", logFilePrefix, started.Format("20060102-150405"), pid)
	if slug := commandSlug(command); slug != "" {
		name += "-" + slug
	}
	return name + logFileExt
}

// commandSlug keeps letters, digits and dashes from a command path.
func commandSlug(command string) string {
	fields := strings.FieldsFunc(strings.ToLower(command), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	return strings.Join(fields, "-")
}

// rotate keeps the newest maxFiles-1 inboxkit log files in dir, leaving room
// for the file about to be created. Other files are never touched.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	excess := len(files) - (maxFiles - 1)
	if excess <= 0 {
		return nil
	}
	slices.SortFunc(files, func(a, b logFile) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})

	var errs []error
	for _, f := range files[:excess] {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
