package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher downloads dataset archives. It sits outside the conversion
// core: pipelines only ever see already-extracted local files.
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewFetcher creates a fetcher with retries suitable for multi-gigabyte
// dataset archives.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second)

	return &Fetcher{client: client, logger: logger}
}

// Download fetches the archive at url into targetDir and returns its
// path. An archive already on disk is reused, not re-downloaded.
func (f *Fetcher) Download(url, targetDir string) (string, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	name := filepath.Base(url)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		name = "dataset.zip"
	}
	dest := filepath.Join(targetDir, name)

	if _, err := os.Stat(dest); err == nil {
		f.logger.Info("archive already downloaded", zap.String("path", dest))
		return dest, nil
	}

	f.logger.Info("downloading dataset archive", zap.String("url", url))
	resp, err := f.client.R().SetOutput(dest).Get(url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() {
		os.Remove(dest)
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status())
	}
	f.logger.Info("downloaded dataset archive", zap.String("path", dest))
	return dest, nil
}

// Extract unpacks a zip archive into a directory named after it and
// returns that directory. A previous extraction is reused.
func Extract(archivePath string) (string, error) {
	destDir := strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
	if info, err := os.Stat(destDir); err == nil && info.IsDir() {
		return destDir, nil
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	cleanDest := filepath.Clean(destDir)
	for _, file := range reader.File {
		path := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(path, cleanDest+string(os.PathSeparator)) {
			return "", fmt.Errorf("archive entry escapes extraction directory: %s", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return "", err
			}
			continue
		}
		if err := extractFile(file, path); err != nil {
			return "", err
		}
	}
	return destDir, nil
}

func extractFile(file *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", file.Name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return out.Close()
}

// FindFile locates a file by name anywhere under dir; dataset archives
// nest their tables unpredictably.
func FindFile(dir, name string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("could not find %s under %s", name, dir)
	}
	return found, nil
}
