package layout

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("image"), 0o644))
	}
}

func TestResolve(t *testing.T) {
	dir := filepath.Join("build", "target")
	primary := filepath.Join(dir, "firmware.bin")

	t.Run("esp8266 needs only the primary file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, primary)

		set, err := Resolve(fs, ESP8266, primary)
		require.NoError(t, err)
		assert.Equal(t, []Write{{Offset: 0x0000, Path: primary}}, set.Writes())
		assert.Equal(t, []string{primary}, set.Files())
		assert.Equal(t, dir, set.Dir)
	})

	t.Run("esp32 full set", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs,
			primary,
			filepath.Join(dir, BootloaderFile),
			filepath.Join(dir, PartitionTableFile),
			filepath.Join(dir, AppSelectorFile),
		)

		set, err := Resolve(fs, ESP32, primary)
		require.NoError(t, err)
		assert.Equal(t, []Write{
			{Offset: 0x1000, Path: filepath.Join(dir, BootloaderFile)},
			{Offset: 0x8000, Path: filepath.Join(dir, PartitionTableFile)},
			{Offset: 0xe000, Path: filepath.Join(dir, AppSelectorFile)},
			{Offset: 0x10000, Path: primary},
		}, set.Writes())
		assert.Equal(t, []string{
			primary,
			filepath.Join(dir, BootloaderFile),
			filepath.Join(dir, PartitionTableFile),
			filepath.Join(dir, AppSelectorFile),
		}, set.Files())
	})

	t.Run("esp32 missing partition table", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs,
			primary,
			filepath.Join(dir, BootloaderFile),
			filepath.Join(dir, AppSelectorFile),
		)

		_, err := Resolve(fs, ESP32, primary)
		var missing *MissingFileError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, SegmentPartitionTable, missing.Segment)
		assert.Equal(t, filepath.Join(dir, PartitionTableFile), missing.Path)
		assert.Contains(t, err.Error(), "missing partition-table file")
	})

	t.Run("missing primary", func(t *testing.T) {
		_, err := Resolve(afero.NewMemMapFs(), ESP8266, primary)
		var missing *MissingFileError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, SegmentApplication, missing.Segment)
	})

	t.Run("primary is a directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(primary, 0o755))

		_, err := Resolve(fs, ESP8266, primary)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Resolve(afero.NewMemMapFs(), ESP8266, "")
		assert.Error(t, err)
	})

	t.Run("unknown family", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, primary)
		_, err := Resolve(fs, Family(7), primary)
		assert.Error(t, err)
	})
}
