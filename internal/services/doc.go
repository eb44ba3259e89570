// Package services defines the shared error taxonomy and context carriers used
// across slated components.
//
// Errors are classified by wrapping one of the exported sentinels so callers
// can branch with errors.Is without parsing messages. Wrap attaches component
// and operation context in a consistent "component: operation: message" shape.
package services
