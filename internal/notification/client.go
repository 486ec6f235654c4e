package notification

import (
	"net/http"

	"github.com/google/uuid"
)

// ClientCookie identifies the browser across requests so flashes produced
// by a mutation can be picked up after the client follows the redirect.
const ClientCookie = "booking_client_id"

// ClientID returns the caller's flash queue id, minting a cookie when the
// request doesn't carry one yet.
func ClientID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(ClientCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}
