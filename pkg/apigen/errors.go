package apigen

import "fmt"

// RegistrationError reports a route whose companion registration or
// binding failed.
type RegistrationError struct {
	Ref         string
	OperationID string
	Err         error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register route %s (operation %s): %v", e.Ref, e.OperationID, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports missing package metadata.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("package metadata: %s is required", e.Field)
}
