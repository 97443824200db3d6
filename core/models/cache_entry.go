package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// CacheEntry is a scan result stamped with the file state it was taken
// from. Size and mtime are the quick check; the content hash decides.
type CacheEntry struct {
	FilePath   string      `json:"file_path"`
	ModTime    time.Time   `json:"mod_time"`
	Size       int64       `json:"size"`
	FileHash   string      `json:"file_hash"`
	ParsedFile *ParsedFile `json:"parsed_file"`
}

func NewCacheEntry(filePath string, parsedFile *ParsedFile) (*CacheEntry, error) {
	content, info, err := readWithInfo(filePath)
	if err != nil {
		return nil, err
	}
	return &CacheEntry{
		FilePath:   filePath,
		ModTime:    info.ModTime(),
		Size:       info.Size(),
		FileHash:   HashBytes(content),
		ParsedFile: parsedFile,
	}, nil
}

// IsValid reports whether the file still has the content it was scanned
// with. A touched file whose hash is unchanged stays valid and adopts the
// new mtime.
func (ce *CacheEntry) IsValid() (bool, error) {
	info, err := os.Stat(ce.FilePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file %s: %w", ce.FilePath, err)
	}
	if info.Size() != ce.Size {
		return false, nil
	}
	if info.ModTime().Equal(ce.ModTime) {
		return true, nil
	}

	hash, err := HashFile(ce.FilePath)
	if err != nil {
		return false, err
	}
	if hash != ce.FileHash {
		return false, nil
	}
	ce.ModTime = info.ModTime()
	return true, nil
}

func HashFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}
	return HashBytes(content), nil
}

func HashBytes(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

func readWithInfo(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, info, nil
}
