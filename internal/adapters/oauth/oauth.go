// Package oauth verifies third-party tokens against the providers'
// introspection endpoints and maps them to an external identity.
package oauth

import "fmt"

// Identity is a verified external identity. Profile fields are only present
// when the provider's profile endpoint was consulted.
type Identity struct {
	ID             string
	Nickname       string
	ProfileImage   string
	ThumbnailImage string
}

// RejectedError reports that the provider refused the presented token (or
// that it belongs to another app). Transport failures are ordinary errors.
type RejectedError struct {
	Provider string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected token: %s", e.Provider, e.Reason)
}
