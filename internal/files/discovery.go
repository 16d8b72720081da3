package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindParquetFiles finds all Parquet part files in the dataset directory,
// sorted by name. Part files are named part-00000.parquet, part-00001.parquet
// and so on, so lexical order is scan order; every query walks parts in this
// order, which is what makes repeated Collect calls deterministic.
func FindParquetFiles(dir string) ([]FileInfo, error) {
	return findByExtension(dir, ".parquet")
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
func FindCSVFiles(dir string) ([]FileInfo, error) {
	return findByExtension(dir, ".csv")
}

func findByExtension(dir, ext string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// TotalSize returns the combined size in bytes of the given files
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// HasPartial reports whether an interrupted download left a partial file
// next to the given destination path.
func HasPartial(dest string) bool {
	info, err := os.Stat(dest + ".partial")
	return err == nil && !info.IsDir()
}
