package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	_ "time/tzdata"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/dashboard"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/server"
	"github.com/chatlens/chatlens/internal/watch"
	"github.com/chatlens/chatlens/internal/words"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "version", "--version", "-v":
			fmt.Printf("chatlens %s (commit %s, built %s)\n",
				version, commit, buildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	runServe(os.Args[1:])
}

func printUsage() {
	fmt.Printf(`chatlens %s - chat conversation analytics dashboard

Ingests chat export files and serves per-conversation statistics:
activity timelines, hourly/weekly/monthly histograms, participant
behavior metrics, and word/emoji frequencies over a local HTTP API.

Usage:
  chatlens [flags]          Start the server (default command)
  chatlens serve [flags]    Start the server (explicit)
  chatlens version          Show version information
  chatlens help             Show this help

Server flags:
  -host string           Host to bind to (default "127.0.0.1")
  -port int              Port to listen on (default 8420)
  -watch-dir string      Directory to watch for chat exports
  -stopwords-url string  URL of the JSON stopword list
`, version)
}

func runServe(args []string) {
	cfg := config.Load()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	config.RegisterFlags(&cfg, fs)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	stop := words.NewStopwords()
	if cfg.StopwordsURL != "" {
		stop.LoadAsync(cfg.StopwordsURL, nil)
	}

	port := server.FindAvailablePort(cfg.Host, cfg.Port)
	if port != cfg.Port {
		log.Printf("Port %d in use, using %d", cfg.Port, port)
	}
	cfg.Port = port

	store := dashboard.NewStore()
	srv := server.New(cfg, store, stop, server.WithVersion(
		server.VersionInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		},
	))

	if cfg.WatchDir != "" {
		assembler := dashboard.NewAssembler(stop)
		w, err := watch.New(
			cfg.WatchDir, cfg.WatchDebounce,
			func(paths []string) {
				ingestExports(store, assembler, paths)
			},
		)
		if err != nil {
			log.Fatalf("starting export watcher: %v", err)
		}
		w.Start()
		defer w.Stop()
		log.Printf("Watching %s for chat exports", cfg.WatchDir)
	}

	log.Printf("Starting server at http://%s:%d", cfg.Host, cfg.Port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// ingestExports loads dropped export files into the session store.
// A file that fails to parse is logged and skipped; the watcher
// keeps running.
func ingestExports(
	store *dashboard.Store, assembler *dashboard.Assembler,
	paths []string,
) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("reading export %s: %v", path, err)
			continue
		}
		msgs, err := parser.ParseExport(data)
		if err != nil {
			log.Printf("parsing export %s: %v", path, err)
			continue
		}
		name := filepath.Base(path)
		sess := store.Add(name, msgs, assembler.BuildBundle(msgs))
		log.Printf("ingested %s as analysis %s (%d messages)",
			name, sess.ID, len(msgs))
	}
}
