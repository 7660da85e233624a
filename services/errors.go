package services

// ServiceError is a typed error with an HTTP status code, returned by
// every service operation so controllers can map failures directly to
// responses.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }
