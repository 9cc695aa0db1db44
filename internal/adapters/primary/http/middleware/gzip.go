package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Gzip compresses JSON responses. Archives and workbooks are already
// compressed and stream through untouched.
func Gzip() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{
			`/artifacts/[^/]+/download$`,
			`/artifacts/export$`,
		}),
	)
}
