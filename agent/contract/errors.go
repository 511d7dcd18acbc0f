package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrToolDiscovery   = errors.New("tool discovery failed")
	ErrToolInvoke      = errors.New("tool invoke failed")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrTimeout         = errors.New("upstream call timed out")
)
