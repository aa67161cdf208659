package handler

import (
	"context"
	"net/http"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/service"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// JWTAuth devuelve un middleware que valida el bearer token y
// mete la identidad en el contexto.
func JWTAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := tokens.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly solo deja pasar tokens con isAdmin. Va siempre despues de JWTAuth.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := service.RequireAdmin(IdentityFromContext(r.Context())); err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext devuelve nil si el request no pasó por JWTAuth.
func IdentityFromContext(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(ctxIdentity).(*models.Identity)
	return id
}

// QueryToken copia ?access_token= al header Authorization cuando falta.
// Los navegadores no pueden mandar headers al abrir un websocket.
func QueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if tok := r.URL.Query().Get("access_token"); tok != "" {
				r.Header.Set("Authorization", "Bearer "+tok)
			}
		}
		next.ServeHTTP(w, r)
	})
}
