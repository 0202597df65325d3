package main

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"kvscan/pkg/cardocr"
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()

	opts := cardocr.Options{}
	if v := os.Getenv("SCAN_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Parallelism = n
		}
	}
	if path := os.Getenv("SCAN_VOCAB"); path != "" {
		vocab, err := cardocr.LoadVocabulary(path)
		if err != nil {
			log.Fatalf("load vocabulary %s: %v", path, err)
		}
		opts.Vocab = vocab
		log.Printf("vocabulary loaded from %s", path)
	}
	if dir := os.Getenv("SCAN_DEBUG_DIR"); dir != "" {
		sink, err := cardocr.NewDirSink(dir)
		if err != nil {
			log.Fatalf("debug sink: %v", err)
		}
		opts.Debug = sink
	}

	scanner := cardocr.NewScanner(cardocr.NewTesseractEngine(), opts)

	r := gin.Default()
	setupRoutes(r, scanner)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
