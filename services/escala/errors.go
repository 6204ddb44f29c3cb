package escala

import "fmt"

// NetworkError is a request that got no response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("requesting %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Body holds the response text.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// HTTPStatus returns the status code and the body text of the response.
func (e *StatusError) HTTPStatus() (int, string) { return e.Code, e.Body }

// ParseError is a response whose body could not be decoded.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
