package cli

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
	"github.com/gontarzpawel/photo-pigeon-send/internal/validate"
)

// imageExtensions are the file types picked up by the scan command.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// Add queues each named file. Files already uploaded are skipped. An
// invalid server URL rejects the whole batch before anything is queued.
func (a *App) Add(ctx context.Context, paths []string, source models.PhotoSource) {
	if len(paths) == 0 {
		log.Printf("usage: add <file> [file...]")
		return
	}

	serverURL := a.serverURL()
	if !validate.IsValidURL(serverURL) {
		log.Printf("invalid server URL %q, nothing queued", serverURL)
		return
	}

	queued := 0
	for _, path := range paths {
		file, err := models.NewLocalFile(path)
		if err != nil {
			log.Printf("error: %v", err)
			continue
		}

		_, added := a.store.Add(file, serverURL, a.config.UploadPath, source, file.Path)
		if !added {
			log.Printf("%s already uploaded, skipping", file.Name)
			continue
		}
		queued++
		log.Printf("queued %s", file.Name)
	}

	// Adding while logged in arms the scheduler right away; otherwise the
	// photos wait for an explicit upload after login.
	if queued > 0 && a.isLoggedIn() {
		_ = a.scheduler.StartUploadAll(ctx)
	}
}

// Scan walks dir recursively and queues every image file found.
func (a *App) Scan(ctx context.Context, dir string) {
	if dir == "" {
		log.Printf("usage: scan <directory>")
		return
	}

	images, err := collectImages(dir)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if len(images) == 0 {
		log.Printf("no images found in %s", dir)
		return
	}

	a.Add(ctx, images, models.SourceGallery)
}

func (a *App) Remove(id string) {
	if id == "" {
		log.Printf("usage: remove <id>")
		return
	}
	a.store.Remove(id)
}

func (a *App) ClearCompleted() {
	a.store.ClearCompleted()
}

func collectImages(root string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
