package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrFileNameInvalid = errors.New("file name contains no usable characters")
	ErrNoFile          = errors.New("no file provided")
)

const (
	maxOriginalNameSize = 255
	maxFileNameSize     = 244 // Takes into account the random prefix of stored files
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a plain ASCII file name that is safe to
// join onto a directory. Path separators become spaces, runs of whitespace
// become underscores and leading or trailing dots and underscores are
// removed, so "../../etc/passwd" turns into "etc_passwd". The result may be
// empty
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}

// FileValidator checks an uploaded file and returns the name it should be
// stored under, together with the status code to answer with on failure
func FileValidator(fh *multipart.FileHeader, maxFileSize int64) (int, string, error) {
	if fh == nil || fh.Filename == "" {
		return http.StatusBadRequest, "", ErrNoFile
	}

	if len(fh.Filename) > maxOriginalNameSize {
		return http.StatusBadRequest, "", ErrFileNameTooLong
	}

	if fh.Size > maxFileSize {
		return http.StatusRequestEntityTooLarge, "", ErrFileTooLarge
	}

	name := SecureFilename(fh.Filename)
	if name == "" {
		return http.StatusBadRequest, "", ErrFileNameInvalid
	}

	if len(name) > maxFileNameSize {
		return http.StatusBadRequest, "", ErrFileNameTooLong
	}

	return 0, name, nil
}
