package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/response"
)

// RequireStoreAccess rejects callers that may not manage the store named by the storeID URL param.
func RequireStoreAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := user.PrincipalFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		storeID := chi.URLParam(r, "storeID")
		if storeID == "" || !principal.CanManageStore(storeID) {
			response.HandleError(w, user.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
