package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type subjectKey struct{}

// Subject returns the authenticated caller of a request, if any.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// openPaths are served without a token.
var openPaths = []string{"/health", "/metrics", "/openapi", "/docs", "/schemas"}

func isOpen(path string) bool {
	for _, p := range openPaths {
		if path == p || strings.HasPrefix(path, p+".") || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func authenticate(token, secret string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("subject claim required")
	}
	return claims.Subject, nil
}

// newAuthMiddleware requires an HS256 bearer token signed with secret on
// every path but the open ones.
func newAuthMiddleware(secret string, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if isOpen(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}
			token, ok := bearerToken(req.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			subject, err := authenticate(token, secret)
			if err != nil {
				logger.Printf("httpapi: rejected token path=%s err=%v", req.URL.Path, err)
				unauthorized(w)
				return
			}
			logger.Printf("httpapi: request subject=%s method=%s path=%s", subject, req.Method, req.URL.Path)
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), subjectKey{}, subject)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(http.StatusUnauthorized),
		"status": http.StatusUnauthorized,
		"detail": "a valid bearer token is required",
	})
}
