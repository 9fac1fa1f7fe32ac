// Package drs browses DRS resource archives through io/fs. Entries are
// exposed as <ext>/<id>.<ext>, one directory per table.
package drs

import (
	"encoding/binary"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/utils"
	"github.com/pkg/errors"
)

const formatName = "drs"

type header struct {
	Copyright       [40]byte
	Version         [4]byte
	Type            [12]byte
	TableCount      int32
	FirstFileOffset int32
}

type tableHeader struct {
	Extension [4]byte
	Offset    int32
	Count     int32
}

type entryHeader struct {
	ID     int32
	Offset int32
	Size   int32
}

// Entry is a file or table directory inside the archive.
type Entry interface {
	fs.DirEntry
	fs.FileInfo
	Path() string
}

type entry struct {
	path    string
	name    string
	isDir   bool
	header  entryHeader
	entries []fs.DirEntry
}

func (e *entry) Name() string               { return e.name }
func (e *entry) IsDir() bool                { return e.isDir }
func (e *entry) Info() (fs.FileInfo, error) { return e, nil }
func (e *entry) Path() string               { return e.path }
func (e *entry) ModTime() time.Time         { return time.Time{} }
func (e *entry) Sys() any                   { return nil }

func (e *entry) Type() fs.FileMode { return e.Mode().Type() }

func (e *entry) Mode() fs.FileMode {
	if e.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

func (e *entry) Size() int64 {
	if e.isDir {
		return 0
	}
	return int64(e.header.Size)
}

// ID is the resource id of a file entry.
func (e *entry) ID() int { return int(e.header.ID) }

type ArchiveReader interface {
	io.Reader
	io.ReaderAt
}

type Archive struct {
	header header
	r      ArchiveReader
	root   *entry
	fm     map[string]*entry
}

// NewArchive reads the header and all tables of r. r must be positioned at
// the archive start.
func NewArchive(r ArchiveReader) (*Archive, error) {
	archive := &Archive{
		r:    r,
		root: &entry{path: ".", name: ".", isDir: true},
	}
	archive.fm = map[string]*entry{".": archive.root}
	if err := archive.readHeader(); err != nil {
		return nil, err
	}
	if err := archive.readTables(); err != nil {
		return nil, err
	}
	return archive, nil
}

func (archive *Archive) Copyright() string { return utils.CString(archive.header.Copyright[:]).Windows1252() }
func (archive *Archive) Version() string   { return utils.CString(archive.header.Version[:]).Windows1252() }
func (archive *Archive) Type() string      { return utils.CString(archive.header.Type[:]).Windows1252() }

func (archive *Archive) readHeader() error {
	if err := binary.Read(archive.r, binary.LittleEndian, &archive.header); err != nil {
		return rge.WrapFormatError(unexpected(err), formatName, "reading header")
	}
	if archive.header.TableCount < 0 {
		return rge.NewFormatError(formatName, "negative table count %d", archive.header.TableCount)
	}
	return nil
}

func (archive *Archive) readTables() error {
	tables := make([]tableHeader, archive.header.TableCount)
	if err := binary.Read(archive.r, binary.LittleEndian, tables); err != nil {
		return rge.WrapFormatError(unexpected(err), formatName, "reading table list")
	}
	for i, table := range tables {
		ext := extension(table.Extension)
		if ext == "" {
			return rge.NewFormatError(formatName, "table %d has no extension", i)
		}
		if table.Offset < 0 || table.Count < 0 {
			return rge.NewFormatError(formatName, "table %s: offset %d count %d", ext, table.Offset, table.Count)
		}
		entries := make([]entryHeader, table.Count)
		sr := io.NewSectionReader(archive.r, int64(table.Offset), int64(binary.Size(entries)))
		if err := binary.Read(sr, binary.LittleEndian, entries); err != nil {
			return rge.WrapFormatError(unexpected(err), formatName, "reading table %s", ext)
		}
		dir := archive.makeDir(ext)
		for _, h := range entries {
			if h.Offset < 0 || h.Size < 0 {
				return rge.NewFormatError(formatName, "entry %d.%s: offset %d size %d", h.ID, ext, h.Offset, h.Size)
			}
			name := strconv.Itoa(int(h.ID)) + "." + ext
			e := &entry{path: path.Join(ext, name), name: name, header: h}
			archive.add(dir, e)
		}
	}
	for _, e := range archive.fm {
		if e.isDir {
			sort.Slice(e.entries, func(i, j int) bool { return e.entries[i].Name() < e.entries[j].Name() })
		}
	}
	return nil
}

// extension undoes the reversed, space padded table tag (" pls" is "slp").
func extension(tag [4]byte) string {
	for i, j := 0, len(tag)-1; i < j; i, j = i+1, j-1 {
		tag[i], tag[j] = tag[j], tag[i]
	}
	return strings.TrimRight(utils.CString(tag[:]).String(), " ")
}

func (archive *Archive) makeDir(name string) *entry {
	if dir, ok := archive.fm[name]; ok {
		return dir
	}
	dir := &entry{path: name, name: name, isDir: true}
	archive.add(archive.root, dir)
	return dir
}

func (archive *Archive) add(dir, e *entry) {
	if _, ok := archive.fm[e.path]; ok {
		return
	}
	dir.entries = append(dir.entries, e)
	archive.fm[e.path] = e
}

// Entries lists every file sorted by path.
func (archive *Archive) Entries() []Entry {
	var out []Entry
	for _, e := range archive.fm {
		if !e.isDir {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// Lookup finds a file by extension and resource id.
func (archive *Archive) Lookup(ext string, id int) (Entry, bool) {
	name := strconv.Itoa(id) + "." + ext
	e, ok := archive.fm[path.Join(ext, name)]
	if !ok || e.isDir {
		return nil, false
	}
	return e, true
}

type openedFile struct {
	*entry
	*io.SectionReader
}

func (f *openedFile) Close() error               { return nil }
func (f *openedFile) Stat() (fs.FileInfo, error) { return f.entry, nil }

// Size resolves the ambiguity between FileInfo and SectionReader.
func (f *openedFile) Size() int64 { return f.entry.Size() }

type openedDir struct {
	*entry
	pos int
}

func (d *openedDir) Close() error               { return nil }
func (d *openedDir) Stat() (fs.FileInfo, error) { return d.entry, nil }

func (d *openedDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.path, Err: fs.ErrInvalid}
}

func (d *openedDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.pos:]
	if n <= 0 {
		d.pos = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.pos += n
	return rest[:n], nil
}

func (archive *Archive) lookup(op, name string) (*entry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	e, ok := archive.fm[name]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return e, nil
}

func (archive *Archive) Open(name string) (fs.File, error) {
	e, err := archive.lookup("open", name)
	if err != nil {
		return nil, err
	}
	if e.isDir {
		return &openedDir{entry: e}, nil
	}
	sr := io.NewSectionReader(archive.r, int64(e.header.Offset), int64(e.header.Size))
	return &openedFile{entry: e, SectionReader: sr}, nil
}

func (archive *Archive) ReadDir(name string) ([]fs.DirEntry, error) {
	e, err := archive.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !e.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}
	return append([]fs.DirEntry(nil), e.entries...), nil
}

func (archive *Archive) Stat(name string) (fs.FileInfo, error) {
	e, err := archive.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

var (
	_ fs.ReadDirFS   = (*Archive)(nil)
	_ fs.StatFS      = (*Archive)(nil)
	_ fs.ReadDirFile = (*openedDir)(nil)
)
