// Package middleware holds HTTP middleware not tied to one domain package.
package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	CompressionLevel int      // gzip level, 1 (fastest) to 9 (best)
	PathPrefixes     []string // only responses under these paths are compressed
}

// DefaultCompressionConfig compresses the read endpoints whose answers grow
// with stored data. Screening uploads answer with a few hundred bytes.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		CompressionLevel: gzip.DefaultCompression,
		PathPrefixes:     []string{"/screening/history", "/metrics", "/swagger/"},
	}
}

// CompressionMiddleware provides gzip compression for HTTP responses
type CompressionMiddleware struct {
	config CompressionConfig
	pool   sync.Pool

	totalRequests      atomic.Int64
	compressedRequests atomic.Int64
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	if config.CompressionLevel < gzip.HuffmanOnly || config.CompressionLevel > gzip.BestCompression {
		config.CompressionLevel = gzip.DefaultCompression
	}

	cm := &CompressionMiddleware{config: config}
	cm.pool.New = func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, cm.config.CompressionLevel)
		return gz
	}
	return cm
}

// Handler returns the gin middleware
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cm.totalRequests.Add(1)
		if !cm.shouldCompress(c.Request) {
			c.Next()
			return
		}
		cm.compressedRequests.Add(1)

		gz := cm.pool.Get().(*gzip.Writer)
		gz.Reset(c.Writer)
		defer cm.pool.Put(gz)

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &gzipResponseWriter{ResponseWriter: c.Writer, gzipWriter: gz}

		defer func() {
			// nothing written, so no gzip footer either
			if c.Writer.Size() < 0 {
				gz.Reset(io.Discard)
			}
			gz.Close()
		}()

		c.Next()
	}
}

func (cm *CompressionMiddleware) shouldCompress(r *http.Request) bool {
	if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}
	for _, prefix := range cm.config.PathPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	total := cm.totalRequests.Load()
	compressed := cm.compressedRequests.Load()

	ratio := 0.0
	if total > 0 {
		ratio = float64(compressed) / float64(total)
	}

	return map[string]interface{}{
		"total_requests":      total,
		"compressed_requests": compressed,
		"compressed_ratio":    ratio,
	}
}

// gzipResponseWriter routes the body through gzip
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzipWriter *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	w.Header().Del("Content-Length")
	return w.gzipWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	w.Header().Del("Content-Length")
	return w.gzipWriter.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	_ = w.gzipWriter.Flush()
	w.ResponseWriter.Flush()
}
