package errors

// Tool configuration error codes (CFG400-499)
const (
	// ErrConfigRead indicates the tool configuration file could not be read
	ErrConfigRead ErrorCode = "CFG400"
	// ErrConfigInvalid indicates a tool configuration value is invalid
	ErrConfigInvalid ErrorCode = "CFG401"
)

// NewConfigRead creates a CFG400 error
func NewConfigRead(path string, cause error) *ToolError {
	return newError(ErrConfigRead, CategoryConfig, SeverityError, cause,
		"Cannot read configkeys.yml: %v", cause).
		WithPath(path)
}

// NewConfigInvalid creates a CFG401 error
func NewConfigInvalid(key, reason string) *ToolError {
	return newError(ErrConfigInvalid, CategoryConfig, SeverityError, nil,
		"Invalid value for '%s': %s", key, reason).
		WithSuggestion("Fix the value in configkeys.yml or the matching CONFIGKEYS_ environment variable")
}
