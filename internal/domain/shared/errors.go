package shared

// DomainError is an error with a stable machine-readable code. The HTTP
// layer maps codes onto status codes without inspecting messages.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ErrAlreadyExists reports a write that lost a uniqueness race, typically
// two sync passes creating the same order record.
var ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
