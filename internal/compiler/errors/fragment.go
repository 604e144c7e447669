package errors

// Module template error codes (FRG300-399)
const (
	// ErrFragmentRead indicates a module template could not be read
	ErrFragmentRead ErrorCode = "FRG300"
	// ErrFragmentEmpty indicates a module template produced no keys
	ErrFragmentEmpty ErrorCode = "FRG301"
	// ErrModuleRoot indicates a module root could not be listed
	ErrModuleRoot ErrorCode = "FRG302"
	// ErrInvalidPolicy indicates an unknown merge policy
	ErrInvalidPolicy ErrorCode = "FRG303"
)

// NewFragmentRead creates a FRG300 error
func NewFragmentRead(module, path string, cause error) *ToolError {
	return newError(ErrFragmentRead, CategoryFragment, SeverityError, cause,
		"Cannot read template of module '%s': %v", module, cause).
		WithPath(path)
}

// NewFragmentEmpty creates a FRG301 warning
func NewFragmentEmpty(module, path string) *ToolError {
	return newError(ErrFragmentEmpty, CategoryFragment, SeverityWarning, nil,
		"Template of module '%s' is empty, skipping", module).
		WithPath(path)
}

// NewModuleRoot creates a FRG302 warning
func NewModuleRoot(root string, cause error) *ToolError {
	return newError(ErrModuleRoot, CategoryFragment, SeverityWarning, cause,
		"Cannot list module root: %v", cause).
		WithPath(root)
}

// NewInvalidPolicy creates a FRG303 error
func NewInvalidPolicy(policy string) *ToolError {
	return newError(ErrInvalidPolicy, CategoryFragment, SeverityError, nil,
		"Unknown merge policy '%s'", policy).
		WithSuggestion("Use 'existing' to keep current values or 'new' to take template values")
}
