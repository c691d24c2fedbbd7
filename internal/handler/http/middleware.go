package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/middleware"
)

// CartIDHeader carries a guest's cart id in both directions.
const CartIDHeader = "X-Cart-ID"

const guestPrefix = "guest:"

type contextKey string

const cartIDKey contextKey = "cart_id"

// ResolveCart picks the cart for the request. Authenticated users own the
// cart keyed by their user id. Guests present a UUID in X-Cart-ID; a guest
// without one is issued a fresh id, echoed in the response header. Guest
// carts live under their own key prefix so a guest id can never address a
// user's cart.
func ResolveCart(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cartID := middleware.UserIDFromContext(ctx)
		if cartID == "" {
			guestID := strings.TrimSpace(r.Header.Get(CartIDHeader))
			if guestID == "" {
				guestID = uuid.NewString()
			} else if _, err := uuid.Parse(guestID); err != nil {
				httputil.WriteError(w, r, apperrors.InvalidInput(CartIDHeader+" must be a UUID"), nil)
				return
			}
			w.Header().Set(CartIDHeader, guestID)
			cartID = guestPrefix + guestID
		}

		ctx = context.WithValue(ctx, cartIDKey, cartID)
		ctx = logger.WithCartID(ctx, cartID)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("cart_id", cartID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cartIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey).(string)
	return id
}

// ContentTypeJSON rejects request bodies that are declared as anything other
// than JSON. A missing Content-Type is accepted.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
