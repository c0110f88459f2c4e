package apiclient

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "REDACTED"

// SensitiveQueryParams are query parameters whose values are credentials.
var SensitiveQueryParams = []string{
	"auth_key",
	"api_key",
	"apikey",
	"key",
	"access_token",
	"token",
	"client_secret",
}

var sensitiveQueryPattern = func() *regexp.Regexp {
	names := make([]string, 0, len(SensitiveQueryParams))
	for _, name := range SensitiveQueryParams {
		names = append(names, regexp.QuoteMeta(name))
	}

	return regexp.MustCompile(`(?i)([?&](?:` + strings.Join(names, "|") + `)=)[^&\s"'#]*`)
}()

// RedactSecrets masks credential query parameters in URLs embedded in text, such
// as the URL that net/http puts in transport error messages.
func RedactSecrets(text string) string {
	return sensitiveQueryPattern.ReplaceAllString(text, "${1}"+redacted)
}

// redactingLogger is a retryablehttp.LeveledLogger that masks credentials in
// logged values. retryablehttp logs full request URLs, query included.
type redactingLogger struct {
	logger *slog.Logger
}

func (l redactingLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, redactValues(keysAndValues)...)
}

func (l redactingLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, redactValues(keysAndValues)...)
}

func (l redactingLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, redactValues(keysAndValues)...)
}

func (l redactingLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, redactValues(keysAndValues)...)
}

func redactValues(keysAndValues []any) []any {
	out := make([]any, len(keysAndValues))

	for i, value := range keysAndValues {
		switch v := value.(type) {
		case string:
			out[i] = RedactSecrets(v)
		case error, fmt.Stringer:
			out[i] = RedactSecrets(fmt.Sprint(v))
		default:
			out[i] = value
		}
	}

	return out
}

// RedactError returns err with credentials masked in its message. The original
// error stays reachable through errors.Is and errors.As.
func RedactError(err error) error {
	if err == nil {
		return nil
	}

	message := RedactSecrets(err.Error())
	if message == err.Error() {
		return err
	}

	return &redactedError{err: err, message: message}
}

type redactedError struct {
	err     error
	message string
}

func (e *redactedError) Error() string {
	return e.message
}

func (e *redactedError) Unwrap() error {
	return e.err
}
