package naming

import "fmt"

// InvalidTemplateError reports a prefix/suffix template with a missing,
// repeated, or misplaced placeholder.
type InvalidTemplateError struct {
	Template string
	Reason   string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid naming template %q: %s", e.Template, e.Reason)
}

// ConflictError reports that both binding targets were requested with
// structurally identical naming schemes.
type ConflictError struct {
	Scheme string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("naming conflict: driver and datastore both use scheme %q, generated symbols would collide", e.Scheme)
}

// NoTargetError reports that neither a driver nor a datastore scheme
// was supplied.
type NoTargetError struct{}

func (e *NoTargetError) Error() string {
	return "no binding target requested: supply a driver scheme, a datastore scheme, or both"
}
