package documents

import "errors"

var (
	// ErrTemplateNotFound means the template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInvalidTemplateName rejects names that could escape the template dir.
	ErrInvalidTemplateName = errors.New("invalid template name")
	// ErrInvalidTemplate covers files that exist but cannot be parsed.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrTemplateContextMismatch means the template referenced a key the
	// context does not provide.
	ErrTemplateContextMismatch = errors.New("template/context mismatch")
	// ErrInvalidRequest is matched by *ValidationError.
	ErrInvalidRequest = errors.New("invalid request")
)
