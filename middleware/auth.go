package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/utils"
)

const TokenHeader = "auth-token"

const (
	msgMissingToken = "Access denied. No token provided"
	msgInvalidToken = "Invalid or expired token"
)

func AuthMiddleware(jwtManager *utils.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				log.Printf("Missing %s header from request %s %s", TokenHeader, r.Method, r.URL.Path)
				unauthorized(w, msgMissingToken)
				return
			}

			claims, err := jwtManager.ValidateJWT(token)
			if err != nil {
				log.Printf("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), controllers.UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.APIResponse{Success: false, Message: msg})
}
