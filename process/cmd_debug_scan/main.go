// Debug scanner for single problem photos: dumps every preprocessed variant
// as PNG, logs per-attempt scores and prints the final result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"kvscan/pkg/cardocr"
)

func main() {
	file := flag.String("file", "", "card photo to scan")
	dump := flag.String("dump", "/tmp/cardscan-debug", "directory for variant dumps")
	flag.Parse()
	if *file == "" {
		log.Fatalf("usage: cmd_debug_scan --file photo.jpg [--dump dir]")
	}

	sink, err := cardocr.NewDirSink(*dump)
	if err != nil {
		log.Fatalf("debug sink: %v", err)
	}
	scanner := cardocr.NewScanner(cardocr.NewTesseractEngine(), cardocr.Options{Debug: sink})

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	cls := scanner.Classify(data)
	log.Printf("classification: type=%s target=%v conf=%.2f ratio=%.2f sig=%s",
		cls.CardType, cls.IsTargetCard, cls.Confidence, cls.Features.AspectRatio, cls.Features.ColorSignature)

	res := scanner.Extract(data)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
	log.Printf("variant dumps in %s", *dump)
}
