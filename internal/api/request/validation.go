package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// Struct validates v with the same rules Decode applies. Form handlers call it
// after binding posted values.
func Struct(v any) error {
	return validate.Struct(v)
}

func RequireID(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
