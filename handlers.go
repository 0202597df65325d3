package main

import (
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"kvscan/pkg/cardocr"
)

// maxUploadBytes bounds the card photo payload; phone camera JPEGs of an
// ID-1 card stay well under this.
const maxUploadBytes = 10 << 20

// ocrSem gates concurrent OCR work; Tesseract is CPU heavy and each scan
// already fans out internally.
var ocrSem = semaphore.NewWeighted(4)

// Per-IP rate limiters
var limiters sync.Map

func setupRoutes(r *gin.Engine, scanner *cardocr.Scanner) {
	r.GET("/healthz", healthHandler)
	scan := r.Group("", rateLimitMiddleware())
	scan.POST("/scan", func(c *gin.Context) { scanHandler(c, scanner) })
	scan.POST("/classify", func(c *gin.Context) { classifyHandler(c, scanner) })
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)
		v, _ := limiters.LoadOrStore(ip, rate.NewLimiter(rate.Every(600*time.Millisecond), 20))
		if !v.(*rate.Limiter).Allow() {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}
	host, _, _ := net.SplitHostPort(c.Request.RemoteAddr)
	return host
}

// readImage pulls the uploaded card photo from the multipart "file" field.
func readImage(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing file field"})
		return nil, false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file too large"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "open upload: " + err.Error()})
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "read upload failed"})
		return nil, false
	}
	return data, true
}

// scanHandler runs classification plus extraction. With ?strict=1 a
// confident non-card verdict rejects the upload before any OCR is spent.
func scanHandler(c *gin.Context, scanner *cardocr.Scanner) {
	data, ok := readImage(c)
	if !ok {
		return
	}
	scanID := uuid.NewString()

	classification := scanner.Classify(data)
	if c.Query("strict") == "1" && !classification.IsTargetCard && classification.Confidence >= 0.4 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":        false,
			"error":          "image does not look like an insurance card",
			"scan_id":        scanID,
			"classification": classification,
		})
		return
	}

	if err := ocrSem.Acquire(c.Request.Context(), 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "ocr at capacity"})
		return
	}
	result := scanner.Extract(data)
	ocrSem.Release(1)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"success":            result.Success,
		"data":               result.Data,
		"error":              result.Error,
		"confidence":         result.Confidence,
		"raw_text":           result.RawText,
		"ocr_attempts":       result.OCRAttempts,
		"total_combinations": result.TotalCombinations,
		"best_method":        result.BestMethod,
		"scan_id":            scanID,
		"classification":     classification,
	})
}

func classifyHandler(c *gin.Context, scanner *cardocr.Scanner) {
	data, ok := readImage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scanner.Classify(data))
}
