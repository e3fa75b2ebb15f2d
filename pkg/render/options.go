package render

// RenderOptions carry per-request state renderers surface without touching
// the evaluation pipeline.
type RenderOptions struct {
	// Values pre-populates rendered controls keyed by field name. Renderers
	// only consult values for fields the visibility resolver keeps.
	Values map[string]any

	// Errors surfaces per-field validation feedback rendered inline next to
	// the offending field.
	Errors map[string]string

	// AutoFillError is the banner-level lookup failure message, rendered
	// separately from per-field errors.
	AutoFillError string

	// FormErrors are form-level messages (for example the submission
	// summary banner) rendered above the fields.
	FormErrors []string
}
