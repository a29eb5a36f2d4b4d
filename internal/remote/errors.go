package remote

// APIError is a request the service understood and rejected, carrying
// the message from its `error` field. Transport and decoding failures
// are returned as plain wrapped errors instead.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
