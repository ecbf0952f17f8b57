package epub

// AnchorName is the fixed name of the entry that must lead the container.
const AnchorName = "mimetype"

// MediaType is the declaration the anchor entry's payload must contain.
const MediaType = "application/epub+zip"

// DefaultCompressionLevel matches the level the container format's tooling
// conventionally uses; deflate levels range 1 (fastest) to 9 (best).
const DefaultCompressionLevel = 9

// DefaultMaxEntries is the per-directory entry limit used when no
// PackWithMaxEntries option is set.
const DefaultMaxEntries = 50_000

// Method identifies how an entry's payload is stored in the container.
type Method uint8

const (
	// MethodStore keeps the payload byte-for-byte uncompressed.
	MethodStore Method = iota
	// MethodDeflate compresses the payload with deflate.
	MethodDeflate
)

// String returns the zip-spec name of the method.
func (m Method) String() string {
	if m == MethodStore {
		return "store"
	}
	return "deflate"
}

// Entry describes one file collected from a source package directory.
//
// Path is the slash-separated name the file will carry inside the
// container and is unique within a collection. Content is read at
// collection time so later stages never touch the source tree.
type Entry struct {
	Path   string
	Data   []byte
	Size   int64
	Anchor bool
}

// CompressedEntry is the post-compression form of an Entry, ready for
// serialization. Ordinal records the entry's position in collection order
// so fan-in can restore the sequence regardless of completion order.
type CompressedEntry struct {
	Path           string
	Method         Method
	Data           []byte
	RawSize        uint64
	CompressedSize uint64
	CRC32          uint32
	Ordinal        int
}

// Stage identifies how far a directory's conversion progressed.
type Stage uint8

const (
	StageCollecting Stage = iota
	StageCompressing
	StageAssembling
	StageDone
)

// String returns the stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageCollecting:
		return "collecting"
	case StageCompressing:
		return "compressing"
	case StageAssembling:
		return "assembling"
	default:
		return "done"
	}
}

// Status is the terminal outcome of one directory's conversion.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

// String returns the status name for logging and reports.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// BuildResult is the outcome of converting one source directory.
// It is immutable once returned; Err is nil unless Status is StatusFailed.
type BuildResult struct {
	SourceDir  string
	OutputPath string
	Status     Status
	Stage      Stage
	Entries    int
	Err        error
}
