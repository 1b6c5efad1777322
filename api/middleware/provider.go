package middleware

import (
	"net/http"

	"github.com/fundihub/fundihub-backend/api/responses"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/logger"
)

// ProviderContext rejects requests whose token carries no provider identity.
func ProviderContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ProviderIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "provider context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
