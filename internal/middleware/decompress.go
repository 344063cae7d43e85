package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DecompressBodyReader swaps the request body for a gzip reader when the
// client sent a compressed body.
func DecompressBodyReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Content-Encoding"), "gzip") {
			gzipReader, err := gzip.NewReader(req.Body)
			if err != nil {
				zap.L().Info("cannot create gzip reader for request body", zap.Error(err))

				res.WriteHeader(http.StatusBadRequest)
				return
			}

			defer gzipReader.Close()

			req.Body = gzipReader
		}

		next.ServeHTTP(res, req)
	})
}
