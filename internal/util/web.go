package util

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a JSON body into dst.
func Decode(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

// DecodeValidate reads a JSON body into dst and checks its validate tags.
func DecodeValidate(r io.Reader, dst any) error {
	if err := Decode(r, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	return nil
}
