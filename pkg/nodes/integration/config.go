package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a node configuration cannot be decoded into
// its typed form or fails validation.
var ErrInvalidConfig = errors.New("invalid node configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeConfig decodes a generic configuration map into target, a pointer to a
// struct with json and validate tags.
func DecodeConfig(config map[string]any, target any) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = json.Unmarshal(raw, target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = validate.Struct(target)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describeValidation(err))
	}

	return nil
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		message := fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag())
		if fieldErr.Param() != "" {
			message += "=" + fieldErr.Param()
		}

		messages = append(messages, message)
	}

	return strings.Join(messages, "; ")
}
