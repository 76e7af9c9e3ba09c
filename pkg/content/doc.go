// Package content loads CMS form definitions and turns them into wizard steps.
//
// A Loader reads raw JSON or YAML from a file, an fs.FS or an HTTP endpoint;
// ParseDocuments decodes it and FirstPublished picks the first published form
// of a type. BuildSteps maps each section with at least one field to a step
// whose options are the section's field names. NewStepBuilder bundles the
// pipeline as a wizard.StepBuilder, and NewOpenAPIStepBuilder derives steps
// from an OpenAPI request body instead.
//
// Failures wrap ErrLoadFailed or ErrNoForms; both are terminal for the page
// that requested the wizard.
package content
