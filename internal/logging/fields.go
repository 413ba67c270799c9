package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldBuildID identifies one catalog build; shared by every line it emits.
	FieldBuildID = "build_id"
	// FieldStage names the pipeline stage (load, validate, publish, record).
	FieldStage = "stage"
	// FieldTable names the source table (songs, versions, glossary, meta).
	FieldTable = "table"
	// FieldRow is the 1-based sheet row number.
	FieldRow = "row"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
