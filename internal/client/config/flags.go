package config

import (
	"flag"
	"os"
	"time"

	"github.com/gontarzpawel/photo-pigeon-send/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   base URL of the ingestion server
//	-p string   upload API path (default "upload")
//	-d string   local database file
//	-n int      upload concurrency
//	-t int      upload timeout in seconds
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-p", "-d", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the ingestion server")
	fs.StringVar(&cfg.UploadPath, "p", cfg.UploadPath, "upload API path")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.IntVar(&cfg.Concurrency, "n", cfg.Concurrency, "upload concurrency")
	uploadTimeout := fs.Int("t", int(cfg.UploadTimeout.Seconds()), "upload timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.UploadTimeout = time.Duration(*uploadTimeout) * time.Second
}
