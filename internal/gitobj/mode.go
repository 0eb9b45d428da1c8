package gitobj

import "strconv"

// FileMode is the set of recognized Git tree-entry mode bits.
type FileMode uint32

const (
	// ModeMissing is returned for a tree that does not contain a given path.
	ModeMissing FileMode = 0
	ModeTree    FileMode = 040000
	ModeSymlink FileMode = 0120000
	ModeGitlink FileMode = 0160000
	ModeRegular FileMode = 0100644
	ModeExec    FileMode = 0100755
)

// IsTree reports whether the mode denotes a subtree (directory).
func (m FileMode) IsTree() bool { return m == ModeTree }

// IsFile reports whether the mode denotes a blob of some kind (regular file,
// executable, or symlink) as opposed to a tree or gitlink.
func (m FileMode) IsFile() bool {
	return m == ModeRegular || m == ModeExec || m == ModeSymlink
}

// IsMissing reports whether the mode is the sentinel "entry absent" value.
func (m FileMode) IsMissing() bool { return m == ModeMissing }

// String renders the mode as octal without leading zeros, the form tree
// objects store ("40000" for a tree, "100644" for a regular file).
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// FromBits constructs a FileMode from the raw octal mode bits parsed out of
// a tree record.
func FromBits(bits int) FileMode {
	return FileMode(bits)
}
