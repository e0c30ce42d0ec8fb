package ir

// Version constants for the catalog schema and the application.
const (
	// SchemaVersion is the catalog record schema version.
	SchemaVersion = "1"

	// AppVersion is the promptguide version.
	AppVersion = "0.1.0"
)
