// Batch card scanner: scans a directory of card photos, extracts fields from
// each and writes a JSON result next to the image. With --watch it keeps
// running and picks up newly dropped files.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"kvscan/pkg/cardocr"
)

var verbose bool

func main() {
	dirFlag := flag.String("dir", ".", "directory to scan for card photos")
	watch := flag.Bool("watch", false, "watch directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	vocabPath := flag.String("vocab", "", "optional vocabulary JSON file")
	minConf := flag.Float64("min-confidence", 0, "log a warning below this confidence")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	opts := cardocr.Options{}
	if *vocabPath != "" {
		v, err := cardocr.LoadVocabulary(*vocabPath)
		if err != nil {
			log.Fatalf("load vocabulary: %v", err)
		}
		opts.Vocab = v
	}
	scanner := cardocr.NewScanner(cardocr.NewTesseractEngine(), opts)

	batchID := uuid.NewString()
	files := listImageFiles(*dirFlag)
	log.Printf("batch %s: scanning %d files in %s (workers=%d)", batchID, len(files), *dirFlag, effectiveWorkers(*workers))
	runWorkerPool(scanner, *dirFlag, *minConf, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(scanner, *dirFlag, *minConf, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	// ignore generated result files to avoid reprocessing loops
	if strings.HasSuffix(name, ".scan.json") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// processSingleFile extracts one card photo and writes <name>.scan.json.
// Idempotent: an existing result file means the photo was already handled.
func processSingleFile(scanner *cardocr.Scanner, dir, name string, minConf float64) {
	outPath := filepath.Join(dir, name+".scan.json")
	if _, err := os.Stat(outPath); err == nil {
		logV("skip %s (already scanned)", name)
		return
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		log.Printf("read %s: %v", name, err)
		return
	}
	res := scanner.Extract(data)
	if !res.Success {
		log.Printf("scan %s failed: %s (combinations=%d)", name, res.Error, res.TotalCombinations)
	} else if res.Confidence < minConf {
		log.Printf("scan %s low confidence %.2f (method=%s)", name, res.Confidence, res.BestMethod)
	} else {
		logV("scan %s ok conf=%.2f method=%s", name, res.Confidence, res.BestMethod)
	}
	buf, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Printf("marshal result for %s: %v", name, err)
		return
	}
	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		log.Printf("write %s: %v", outPath, err)
	}
}

func watchDirectory(scanner *cardocr.Scanner, dir string, minConf float64, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(scanner, dir, minConf, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

// runWorkerPool fans file names out to a fixed set of workers. With extra
// channels (watch mode) the pool keeps running; otherwise it drains the
// initial list and returns.
func runWorkerPool(scanner *cardocr.Scanner, dir string, minConf float64, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(scanner, dir, name, minConf)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}
