package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Write is one offset/file pair of a flash plan.
type Write struct {
	Offset uint32
	Path   string
}

// PartitionFileSet is an AddressLayout bound to concrete files on disk.
type PartitionFileSet struct {
	Layout AddressLayout

	// Primary is the application image path
	Primary string

	// Dir is the directory the siblings were resolved from
	Dir string

	writes []Write
}

// MissingFileError reports a file of the set that does not exist.
type MissingFileError struct {
	Segment string
	Path    string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing %s file: %s", e.Segment, e.Path)
}

// Resolve derives the partition file set for primary and checks that every
// file exists and is a regular file.
//
// Example:
//
//	set, err := layout.Resolve(afero.NewOsFs(), layout.ESP32, "build/firmware.bin")
func Resolve(fs afero.Fs, family Family, primary string) (*PartitionFileSet, error) {
	if primary == "" {
		return nil, fmt.Errorf("primary file path is empty")
	}

	l, err := ForFamily(family)
	if err != nil {
		return nil, err
	}

	set := &PartitionFileSet{
		Layout:  l,
		Primary: primary,
		Dir:     filepath.Dir(primary),
		writes:  make([]Write, 0, len(l.Segments)),
	}

	for _, seg := range l.Segments {
		path := primary
		if seg.File != "" {
			path = filepath.Join(set.Dir, seg.File)
		}

		if err := checkFile(fs, seg.Name, path); err != nil {
			return nil, err
		}

		set.writes = append(set.writes, Write{Offset: seg.Offset, Path: path})
	}

	return set, nil
}

// Writes returns the flash plan ordered by offset.
func (s *PartitionFileSet) Writes() []Write {
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

// Files returns every path in the set, primary first.
func (s *PartitionFileSet) Files() []string {
	files := []string{s.Primary}
	for _, seg := range s.Layout.Siblings() {
		files = append(files, filepath.Join(s.Dir, seg.File))
	}
	return files
}

func checkFile(fs afero.Fs, segment, path string) error {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		return &MissingFileError{Segment: segment, Path: path}
	}
	if err != nil {
		return fmt.Errorf("stat %s file: %w", segment, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s file %s is a directory", segment, path)
	}
	return nil
}
