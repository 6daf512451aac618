package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Device names Windows refuses as file names regardless of extension.
var reservedFilenames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// FileName builds the stored name for an upload:
// "<unix seconds>.<microseconds>_<original>", sanitized.
func FileName(now time.Time, original string) string {
	return SanitizeFilename(fmt.Sprintf("%d.%06d_%s", now.Unix(), now.Nanosecond()/int(time.Microsecond), original))
}

// SanitizeFilename reduces name to a flat ASCII name. Accented letters are
// decomposed and keep their base letter. Path separators become
// underscores, anything outside [A-Za-z0-9_.-] is dropped, leading and
// trailing dots and underscores are trimmed and reserved device names are
// prefixed with an underscore. The result can be empty.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	base, _, _ := strings.Cut(name, ".")
	if reservedFilenames[strings.ToUpper(base)] {
		name = "_" + name
	}

	return name
}

// AllowedExtension reports whether the text after the last dot of filename is
// one of allowed, ignoring case.
func AllowedExtension(filename string, allowed []string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}

	ext := filename[idx+1:]
	for _, a := range allowed {
		if strings.EqualFold(ext, strings.TrimPrefix(strings.TrimSpace(a), ".")) {
			return true
		}
	}

	return false
}
