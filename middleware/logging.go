package middleware

import (
	"log"
	"net/http"

	"github.com/felixge/httpsnoop"
)

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, m.Code, m.Duration)
	})
}
