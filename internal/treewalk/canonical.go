package treewalk

import (
	"fmt"
	"io"
	"strconv"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// CanonicalTreeParser walks the raw, sorted entry records of one tree
// object: each record is "<mode> <name>\0<20-byte id>", already ordered
// the way the object database stores it.
type CanonicalTreeParser struct {
	base

	raw     []byte
	ptr     int
	nextPtr int

	pathPrefix string
	name       string
	mode       gitobj.FileMode
	id         gitobj.ID
	eof        bool
}

// NewCanonicalTreeParser loads and begins parsing the tree named id.
func NewCanonicalTreeParser(db gitobj.Database, id gitobj.ID) (*CanonicalTreeParser, error) {
	return newCanonicalTreeParser(db, id, "")
}

func newCanonicalTreeParser(db gitobj.Database, id gitobj.ID, pathPrefix string) (*CanonicalTreeParser, error) {
	loader, err := db.Open(id)
	if err != nil {
		return nil, err
	}
	defer loader.Close()
	if loader.Type != gitobj.ObjTree {
		return nil, &gitobj.IncorrectObjectTypeError{ID: id, Expected: gitobj.ObjTree}
	}
	data, err := io.ReadAll(loader)
	if err != nil {
		return nil, &gitobj.IoError{Op: "read tree", Err: err}
	}

	p := &CanonicalTreeParser{raw: data, pathPrefix: pathPrefix}
	if len(data) == 0 {
		p.eof = true
		return p, nil
	}
	if err := p.parseEntry(0); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *CanonicalTreeParser) parseEntry(start int) error {
	raw := p.raw
	i := start
	modeVal := 0
	for i < len(raw) && raw[i] != ' ' {
		if raw[i] < '0' || raw[i] > '7' {
			return &gitobj.CorruptObjectError{Err: fmt.Errorf("treewalk: invalid mode digit %q", raw[i])}
		}
		modeVal = modeVal*8 + int(raw[i]-'0')
		i++
	}
	if i >= len(raw) {
		return &gitobj.CorruptObjectError{Err: fmt.Errorf("treewalk: truncated tree entry")}
	}
	i++ // skip space

	nameStart := i
	for i < len(raw) && raw[i] != 0 {
		i++
	}
	if i >= len(raw) {
		return &gitobj.CorruptObjectError{Err: fmt.Errorf("treewalk: truncated tree entry name")}
	}
	name := string(raw[nameStart:i])
	i++ // skip NUL

	if i+gitobj.IDLength > len(raw) {
		return &gitobj.CorruptObjectError{Err: fmt.Errorf("treewalk: truncated tree entry id")}
	}
	var id gitobj.ID
	copy(id[:], raw[i:i+gitobj.IDLength])
	i += gitobj.IDLength

	p.ptr = start
	p.nextPtr = i
	p.mode = gitobj.FromBits(modeVal)
	p.name = name
	p.id = id
	p.eof = false
	return nil
}

func (p *CanonicalTreeParser) ID() gitobj.ID         { return p.id }
func (p *CanonicalTreeParser) Mode() gitobj.FileMode { return p.mode }
func (p *CanonicalTreeParser) IsSubtree() bool       { return p.mode.IsTree() }
func (p *CanonicalTreeParser) EOF() bool             { return p.eof }

func (p *CanonicalTreeParser) Path() string {
	if p.pathPrefix == "" {
		return p.name
	}
	return p.pathPrefix + "/" + p.name
}

func (p *CanonicalTreeParser) Next(delta int) error {
	for ; delta > 0; delta-- {
		if p.eof {
			return nil
		}
		if p.nextPtr >= len(p.raw) {
			p.eof = true
			return nil
		}
		if err := p.parseEntry(p.nextPtr); err != nil {
			return err
		}
	}
	return nil
}

func (p *CanonicalTreeParser) Back(delta int) error {
	return fmt.Errorf("treewalk: CanonicalTreeParser does not support Back (requested %s entries)", strconv.Itoa(delta))
}

func (p *CanonicalTreeParser) CreateSubtreeIterator(db gitobj.Database) (Iterator, error) {
	if !p.IsSubtree() {
		return nil, &gitobj.IncorrectObjectTypeError{ID: p.id, Expected: gitobj.ObjTree}
	}
	return newCanonicalTreeParser(db, p.id, p.Path())
}
