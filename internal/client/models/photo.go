// Package models defines the client-side data model: the queued photo, its
// status lifecycle, and the local file reference it carries.
package models

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// UploadStatus is the lifecycle state of a queued photo.
// Transitions: pending -> uploading -> completed | failed. Terminal states
// are left only by removal from the queue.
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusCompleted UploadStatus = "completed"
	StatusFailed    UploadStatus = "failed"
)

// PhotoSource tags where a photo came from. Informational only: it never
// affects scheduling or dedup.
type PhotoSource string

const (
	SourceCamera  PhotoSource = "camera"
	SourceGallery PhotoSource = "gallery"
	SourceFile    PhotoSource = "file"
)

// LocalFile points at the photo bytes on disk together with the original
// name and MIME type. The queue never reads the bytes itself; the transport
// opens the path when the upload is dispatched.
type LocalFile struct {
	Path string
	Name string
	MIME string
	Size int64
}

// NewLocalFile stats path and builds a LocalFile with the name, size, and a
// MIME type inferred from the extension (application/octet-stream when
// unknown).
func NewLocalFile(path string) (LocalFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return LocalFile{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return LocalFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return LocalFile{}, fmt.Errorf("%s is a directory", path)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(abs)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return LocalFile{
		Path: abs,
		Name: filepath.Base(abs),
		MIME: mimeType,
		Size: fi.Size(),
	}, nil
}

// QueuedPhoto is one entry in the upload queue. Instances handed to
// subscribers are copies; mutation happens only inside the queue store.
type QueuedPhoto struct {
	ID           string
	File         LocalFile
	Status       UploadStatus
	Progress     int
	ServerURL    string
	UploadPath   string
	Source       PhotoSource
	OriginalPath string
	Error        string
}
