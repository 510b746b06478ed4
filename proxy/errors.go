package proxy

// ConfigError represents invalid or inconsistent proxy configuration, such as
// a malformed descriptor or a duplicate, conflicting Configure call.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// DispatchError represents a forwarding failure owned by the proxy layer
// itself: a method the dispatch plan does not cover, or arguments that cannot
// be bound to the target method's signature.
//
// Errors produced by the target method or by the loading session are never
// wrapped in a DispatchError; they propagate to the caller unchanged.
type DispatchError struct {
	Method  string
	Message string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return "dispatch error in method " + e.Method + ": " + e.Message
}
