// Package identity carries the authenticated customer through request
// contexts. Authentication itself is an upstream concern: the identity
// provider in front of this service yields a stable customer id and email,
// delivered here as trusted headers.
package identity

import "context"

// Customer is the identity attached to a request.
type Customer struct {
	ID    string
	Email string
}

type ctxKey string

const customerKey ctxKey = "salon.customer"

// WithCustomer stores the customer identity in context.
func WithCustomer(ctx context.Context, c Customer) context.Context {
	return context.WithValue(ctx, customerKey, c)
}

// FromContext extracts the customer identity if present.
func FromContext(ctx context.Context) (Customer, bool) {
	val := ctx.Value(customerKey)
	if val == nil {
		return Customer{}, false
	}
	c, ok := val.(Customer)
	return c, ok && c.ID != ""
}
