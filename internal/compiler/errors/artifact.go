package errors

// Artifact generation error codes (ART200-299)
const (
	// ErrArtifactRender indicates the artifact source could not be produced
	ErrArtifactRender ErrorCode = "ART200"
	// ErrArtifactWrite indicates the artifact file could not be written
	ErrArtifactWrite ErrorCode = "ART201"
	// ErrArtifactStale indicates the artifact on disk differs from a fresh render
	ErrArtifactStale ErrorCode = "ART202"
)

// NewArtifactRender creates an ART200 error
func NewArtifactRender(cause error) *ToolError {
	return newError(ErrArtifactRender, CategoryArtifact, SeverityError, cause,
		"Cannot render configuration keys: %v", cause).
		WithSuggestion("This is likely a bug - please report it with the configuration that triggers it")
}

// NewArtifactWrite creates an ART201 error
func NewArtifactWrite(path string, cause error) *ToolError {
	return newError(ErrArtifactWrite, CategoryArtifact, SeverityError, cause,
		"Cannot write configuration keys: %v", cause).
		WithPath(path).
		WithSuggestion("Check that the artifact directory exists and is writable")
}

// NewArtifactStale creates an ART202 error
func NewArtifactStale(path string) *ToolError {
	return newError(ErrArtifactStale, CategoryArtifact, SeverityError, nil,
		"Configuration keys are out of date").
		WithPath(path).
		WithSuggestion("Run 'configkeys generate' to regenerate them")
}
