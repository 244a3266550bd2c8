package google

import (
	stderrors "errors"
	"net/http"

	"github.com/slingshot/slingshot/internal/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// mapError converts raw client failures into the typed errors the API
// layer maps onto response statuses. 401s become auth errors so the
// frontend can restart the consent flow; everything else keeps the
// upstream code and message.
func mapError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if stderrors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return &errors.ErrProviderAuth{Provider: provider, Err: err}
		}
		return &errors.ErrProviderRequest{
			Provider: provider,
			Code:     gerr.Code,
			Message:  gerr.Message,
			Body:     gerr.Body,
			Err:      err,
		}
	}

	// A failing token refresh surfaces here, not as a googleapi error.
	var rerr *oauth2.RetrieveError
	if stderrors.As(err, &rerr) {
		return &errors.ErrProviderAuth{Provider: provider, Err: err}
	}

	return &errors.ErrProviderRequest{
		Provider: provider,
		Message:  err.Error(),
		Err:      err,
	}
}
