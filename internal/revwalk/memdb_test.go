package revwalk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// memDatabase is a minimal in-memory gitobj.Database for building commit
// graphs by hand, without a real pack or loose-object store.
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

// emptyTree stores an empty tree object (sufficient for tests that only care
// about commit topology, not tree content) and returns its id.
func (db *memDatabase) emptyTree() gitobj.ID {
	return db.put(gitobj.ObjTree, nil)
}

// commit builds and stores a synthetic commit object with the given tree,
// parents, committer timestamp, and author substring, and returns its id.
func (db *memDatabase) commit(tree gitobj.ID, parents []gitobj.ID, author string, commitTime int64) gitobj.ID {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s 0 %d +0000\n", author, commitTime)
	fmt.Fprintf(&buf, "committer %s 0 %d +0000\n", author, commitTime)
	buf.WriteByte('\n')
	buf.WriteString("synthetic commit\n")
	return db.put(gitobj.ObjCommit, buf.Bytes())
}
