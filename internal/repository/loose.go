package repository

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"strconv"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// looseStore reads individual loose objects out of objects/xx/yyyy... under
// a repository's git directory: each is a zlib-deflated "<type> <size>\0"
// header followed by the object's raw bytes.
type looseStore struct {
	fs billy.Filesystem
}

func newLooseStore(fs billy.Filesystem) *looseStore {
	return &looseStore{fs: fs}
}

func (s *looseStore) pathFor(id gitobj.ID) (string, error) {
	hex := id.String()
	rel, err := securejoin.SecureJoin("objects", hex[:2])
	if err != nil {
		return "", err
	}
	rel, err = securejoin.SecureJoin(rel, hex[2:])
	if err != nil {
		return "", err
	}
	return rel, nil
}

// has reports whether a loose object file exists for id, without inflating
// it.
func (s *looseStore) has(id gitobj.ID) bool {
	path, err := s.pathFor(id)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(path)
	return err == nil
}

// open inflates the loose object named by id. It returns a
// *gitobj.MissingObjectError if no such file exists, and a
// *gitobj.CorruptObjectError if the file exists but cannot be parsed as a
// loose object.
func (s *looseStore) open(id gitobj.ID) (*gitobj.Loader, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, fmt.Errorf("repository: loose object path for %s: %w", id, err)
	}
	f, err := s.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &gitobj.MissingObjectError{ID: id}
		}
		return nil, &gitobj.IoError{Op: "open loose object " + id.String(), Err: err}
	}

	zr, err := zlib.NewReader(f)
	if err != nil {
		f.Close()
		return nil, &gitobj.CorruptObjectError{ID: id, Err: err}
	}

	br := bufio.NewReader(zr)
	typeTok, err := br.ReadString(' ')
	if err != nil {
		f.Close()
		return nil, &gitobj.CorruptObjectError{ID: id, Err: fmt.Errorf("read type token: %w", err)}
	}
	sizeTok, err := br.ReadString(0)
	if err != nil {
		f.Close()
		return nil, &gitobj.CorruptObjectError{ID: id, Err: fmt.Errorf("read size token: %w", err)}
	}
	typ, err := parseObjectType(typeTok[:len(typeTok)-1])
	if err != nil {
		f.Close()
		return nil, &gitobj.CorruptObjectError{ID: id, Err: err}
	}
	size, err := strconv.ParseInt(sizeTok[:len(sizeTok)-1], 10, 64)
	if err != nil {
		f.Close()
		return nil, &gitobj.CorruptObjectError{ID: id, Err: fmt.Errorf("parse size: %w", err)}
	}

	return &gitobj.Loader{
		Type:       typ,
		Size:       size,
		ReadCloser: &looseReadCloser{r: br, f: f},
	}, nil
}

// looseReadCloser chains the buffered zlib stream's remaining content with
// closing the underlying file handle.
type looseReadCloser struct {
	r io.Reader
	f billy.File
}

func (l *looseReadCloser) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *looseReadCloser) Close() error                { return l.f.Close() }

func parseObjectType(s string) (gitobj.ObjectType, error) {
	switch s {
	case "commit":
		return gitobj.ObjCommit, nil
	case "tree":
		return gitobj.ObjTree, nil
	case "blob":
		return gitobj.ObjBlob, nil
	case "tag":
		return gitobj.ObjTag, nil
	default:
		return gitobj.ObjBad, fmt.Errorf("unrecognized object type %q", s)
	}
}

// newObjectBuffer renders an object's uncompressed loose-object bytes
// ("<type> <size>\0<data>"), used by tests to hand-construct a loose object
// file on disk without a full Database.
func newObjectBuffer(typ gitobj.ObjectType, data []byte) *bytes.Buffer {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d\x00", typ, len(data))
	buf.Write(data)
	return &buf
}
