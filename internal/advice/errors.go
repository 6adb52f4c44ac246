package advice

import "errors"

var (
	// ErrNoAPIKey means no key was found in the configured environment variables.
	ErrNoAPIKey = errors.New("advice: no API key configured")
	// ErrEmptyResponse means the endpoint answered without any text.
	ErrEmptyResponse = errors.New("advice: empty response")
)
