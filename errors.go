package epub

import "errors"

var (
	// ErrMissingMimetype is returned when a source directory has no anchor
	// file named "mimetype".
	ErrMissingMimetype = errors.New("package has no mimetype file")

	// ErrInvalidMimetype is returned when the anchor file's payload does not
	// contain the EPUB media type declaration.
	ErrInvalidMimetype = errors.New("mimetype file does not declare " + MediaType)

	// ErrCompression is returned when deflate compression of an entry fails.
	ErrCompression = errors.New("compression failed")

	// ErrWrite is returned when serializing or persisting a container fails.
	ErrWrite = errors.New("container write failed")

	// ErrPathCollision is returned when two collected files map to the same
	// container entry name after case folding.
	ErrPathCollision = errors.New("duplicate entry path")

	// ErrTooManyEntries is returned when a source directory exceeds the
	// configured entry limit.
	ErrTooManyEntries = errors.New("too many entries in package")

	// ErrSymlink is returned internally when a symlink is encountered during
	// collection; symlinked files are skipped, never followed.
	ErrSymlink = errors.New("symlink not followed")
)
