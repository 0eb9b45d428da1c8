package treewalk

import (
	"bytes"
	"io"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// memDatabase is a minimal in-memory gitobj.Database for exercising
// CanonicalTreeParser without a real pack or loose-object store.
type memDatabase struct {
	objects map[gitobj.ID]memObject
}

type memObject struct {
	typ  gitobj.ObjectType
	data []byte
}

func newMemDatabase() *memDatabase {
	return &memDatabase{objects: make(map[gitobj.ID]memObject)}
}

func (db *memDatabase) put(typ gitobj.ObjectType, data []byte) gitobj.ID {
	id := gitobj.HashObject(typ, data)
	db.objects[id] = memObject{typ: typ, data: data}
	return id
}

func (db *memDatabase) Open(id gitobj.ID) (*gitobj.Loader, error) {
	obj, ok := db.objects[id]
	if !ok {
		return nil, &gitobj.MissingObjectError{ID: id}
	}
	return &gitobj.Loader{
		Type:       obj.typ,
		Size:       int64(len(obj.data)),
		ReadCloser: io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (db *memDatabase) HasObject(id gitobj.ID) bool {
	_, ok := db.objects[id]
	return ok
}

// blob stores data as a blob and returns its id.
func (db *memDatabase) blob(data string) gitobj.ID {
	return db.put(gitobj.ObjBlob, []byte(data))
}

// treeEntry is one record of a hand-built tree object.
type treeEntry struct {
	mode gitobj.FileMode
	name string
	id   gitobj.ID
}

// tree stores a tree object built from entries, which must already be in
// git's canonical sort order, and returns its id.
func (db *memDatabase) tree(entries ...treeEntry) gitobj.ID {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.name)
		buf.WriteByte(0)
		buf.Write(e.id[:])
	}
	return db.put(gitobj.ObjTree, buf.Bytes())
}
