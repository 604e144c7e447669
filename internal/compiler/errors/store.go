package errors

// Backing store error codes (STO100-199)
const (
	// ErrStoreCreate indicates the store file could not be created
	ErrStoreCreate ErrorCode = "STO100"
	// ErrStoreRead indicates the store file could not be read
	ErrStoreRead ErrorCode = "STO101"
	// ErrStoreMalformed indicates the store content is not a JSON object
	ErrStoreMalformed ErrorCode = "STO102"
	// ErrStoreWrite indicates the store file could not be written
	ErrStoreWrite ErrorCode = "STO103"
	// ErrStoreBackup indicates the previous store could not be moved aside
	ErrStoreBackup ErrorCode = "STO104"
	// ErrInvalidPath indicates a dotted key path that cannot be used
	ErrInvalidPath ErrorCode = "STO105"
)

// NewStoreCreate creates a STO100 error
func NewStoreCreate(path string, cause error) *ToolError {
	return newError(ErrStoreCreate, CategoryStore, SeverityError, cause,
		"Cannot create configuration store: %v", cause).
		WithPath(path).
		WithSuggestion("Check that the parent directory is writable")
}

// NewStoreRead creates a STO101 error
func NewStoreRead(path string, cause error) *ToolError {
	return newError(ErrStoreRead, CategoryStore, SeverityError, cause,
		"Cannot read configuration store: %v", cause).
		WithPath(path)
}

// NewStoreMalformed creates a STO102 warning; the store is treated as empty
func NewStoreMalformed(path string, cause error) *ToolError {
	return newError(ErrStoreMalformed, CategoryStore, SeverityWarning, cause,
		"Configuration store is not a JSON object, using an empty configuration: %v", cause).
		WithPath(path).
		WithSuggestion("Fix the JSON syntax or delete the file to start over")
}

// NewStoreWrite creates a STO103 error
func NewStoreWrite(path string, cause error) *ToolError {
	return newError(ErrStoreWrite, CategoryStore, SeverityError, cause,
		"Cannot write configuration store: %v", cause).
		WithPath(path)
}

// NewStoreBackup creates a STO104 error
func NewStoreBackup(path string, cause error) *ToolError {
	return newError(ErrStoreBackup, CategoryStore, SeverityError, cause,
		"Cannot back up configuration store: %v", cause).
		WithPath(path)
}

// NewInvalidPath creates a STO105 error
func NewInvalidPath(keyPath string, cause error) *ToolError {
	return newError(ErrInvalidPath, CategoryStore, SeverityError, cause,
		"Invalid key path %q: %v", keyPath, cause).
		WithSuggestion("Use dot-separated keys, e.g. server.port")
}
