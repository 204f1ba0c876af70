package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// TarGzDirectory writes source and everything below it to target. Entries
// are stored under the base name of source.
func TarGzDirectory(ctx context.Context, source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is a file, not a directory: %s", source)
	}

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		source: filepath.Base(filepath.Clean(source)),
	})
	if err != nil {
		return fmt.Errorf("failed to collect files from %s: %w", source, err)
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create tar.gz file: %w", err)
	}
	defer file.Close()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}

	if err := format.Archive(ctx, file, files); err != nil {
		return fmt.Errorf("failed to add files to %s archive: %w", target, err)
	}

	return nil
}
