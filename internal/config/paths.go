package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in the pipeline.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DownloadsDir  string
	DatasetDir    string
	ReportsDir    string
	LogsDir       string

	// Well-known files
	RawCSV        string
	RawCSVPartial string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are always resolved against the executable directory, never the
// current working directory, so the tools behave the same wherever invoked.
//
// Directory structure:
//
//	<exe dir>/
//	  ├── data/
//	  │   ├── downloads/   (raw CSV snapshot)
//	  │   ├── dataset/     (Parquet part files)
//	  │   └── reports/     (report artifacts)
//	  └── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the standard layout under the given base directory.
// Tests use this to point the pipeline at a temporary directory.
func PathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	downloadsDir := filepath.Join(dataDir, "downloads")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		DownloadsDir:  downloadsDir,
		DatasetDir:    filepath.Join(dataDir, "dataset"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(baseDir, "logs"),
		RawCSV:        filepath.Join(downloadsDir, "violations.csv"),
		RawCSVPartial: filepath.Join(downloadsDir, "violations.csv.partial"),
	}
}

// ApplyOverrides replaces any paths set in the configuration. A DataDir
// override relocates the whole data tree; DatasetDir and LogsDir then
// override their single directory.
func (p *Paths) ApplyOverrides(cfg PathsConfig) {
	if cfg.DataDir != "" {
		p.DataDir = cfg.DataDir
		p.DownloadsDir = filepath.Join(cfg.DataDir, "downloads")
		p.DatasetDir = filepath.Join(cfg.DataDir, "dataset")
		p.ReportsDir = filepath.Join(cfg.DataDir, "reports")
		p.RawCSV = filepath.Join(p.DownloadsDir, "violations.csv")
		p.RawCSVPartial = p.RawCSV + ".partial"
	}
	if cfg.DatasetDir != "" {
		p.DatasetDir = cfg.DatasetDir
	}
	if cfg.LogsDir != "" {
		p.LogsDir = cfg.LogsDir
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.DownloadsDir,
		p.DatasetDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetDownloadPath returns the full path for a file in the downloads directory
func (p *Paths) GetDownloadPath(filename string) string {
	return filepath.Join(p.DownloadsDir, filename)
}

// GetDatasetPath returns the full path for a file in the dataset directory
func (p *Paths) GetDatasetPath(filename string) string {
	return filepath.Join(p.DatasetDir, filename)
}

// GetReportPath returns the full path for a file in the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
