package cli

// Default values for CLI output.
const (
	// MaxDescriptionLength is the maximum length of a plugin description in tables.
	MaxDescriptionLength = 50
	// YAMLIndent matches the configuration file indentation.
	YAMLIndent = 2
)
