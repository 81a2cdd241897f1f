package advisory

import (
	"fmt"

	"github.com/agromitra/advisory-engine/pkg/errors"
)

// MaxImageBytes is the largest soil photo the engine accepts.
const MaxImageBytes = 5 << 20

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// validate rejects requests the pipeline must not run. Validation is the
// only stage that fails a request outright; every later stage degrades to
// synthetic data instead.
func validate(req Request) error {
	if !req.Coordinates.Valid() {
		return errors.Wrap(errors.CodeInvalidInput, "latitude and longitude must be valid coordinates", nil)
	}
	if len(req.Image) > MaxImageBytes {
		return errors.Wrap(errors.CodeInvalidInput, fmt.Sprintf("image exceeds the %d MB limit", MaxImageBytes>>20), nil)
	}
	if len(req.Image) > 0 {
		if _, ok := allowedMimeTypes[req.MimeType]; !ok {
			return errors.Wrap(errors.CodeInvalidInput, "image must be jpeg, png or webp", nil)
		}
	}
	return nil
}
