package identity

import "net/http"

// Header names populated by the identity provider in front of this service.
const (
	HeaderCustomerID    = "X-Customer-ID"
	HeaderCustomerEmail = "X-Customer-Email"
)

// RequireCustomer rejects requests without a customer identity and stores
// the identity in the request context for handlers.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderCustomerID)
		if id == "" {
			http.Error(w, "missing customer identity", http.StatusUnauthorized)
			return
		}
		c := Customer{ID: id, Email: r.Header.Get(HeaderCustomerEmail)}
		next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), c)))
	})
}
