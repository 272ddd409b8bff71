package cli

import (
	"context"
	"errors"
	"log"

	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
)

// Upload triggers one drain cycle over everything currently pending.
// Photos added while the cycle runs stay queued for the next trigger.
func (a *App) Upload(ctx context.Context) {
	if err := a.scheduler.StartUploadAll(ctx); err != nil {
		if errors.Is(err, common.ErrAuthRequired) {
			log.Printf("Not logged in, use 'login' first")
			return
		}
		log.Printf("error: %v", err)
		return
	}
	log.Printf("Upload started")
}
