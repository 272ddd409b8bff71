package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
)

var statusColors = map[models.UploadStatus]*color.Color{
	models.StatusPending:   color.New(color.FgYellow),
	models.StatusUploading: color.New(color.FgCyan),
	models.StatusCompleted: color.New(color.FgGreen),
	models.StatusFailed:    color.New(color.FgRed),
}

// List prints the current queue snapshot, one line per photo.
func (a *App) List() {
	items := a.store.Snapshot()
	if len(items) == 0 {
		fmt.Println("Queue is empty")
		return
	}

	for _, item := range items {
		c, ok := statusColors[item.Status]
		if !ok {
			c = color.New()
		}

		line := fmt.Sprintf("%-36s  %-30s  %s", item.ID, item.File.Name, item.Status)
		switch item.Status {
		case models.StatusUploading:
			line += fmt.Sprintf(" %d%%", item.Progress)
		case models.StatusFailed:
			line += fmt.Sprintf(" (%s)", item.Error)
		}
		c.Println(line)
	}
}
