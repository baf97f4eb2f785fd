package validators

import (
	"encoding/json"
	stdErrors "errors"
	"io"
	"net/http"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

// DecodeJSONBody decodes the request body into dest. An empty body leaves
// dest untouched so the service reports the missing fields. Field
// validation belongs to the services.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if stdErrors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid JSON body")
	}
	return nil
}
