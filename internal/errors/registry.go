package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Validation Errors (C001-C099)
	// ============================================

	"C001": {
		Category:   CategoryValidation,
		Message:    "Please fill in all fields!",
		Detail:     "Name, email, contact, and message are all required before the form can be sent.",
		Suggestion: "Provide a value for every field",
	},
	"C002": {
		Category:   CategoryValidation,
		Message:    "Please provide a valid email!",
		Detail:     "The email address was rejected the last time the email field was checked.",
		Suggestion: "Correct the email address and check it again",
	},

	// ============================================
	// Transport Errors (C100-C119)
	// ============================================

	"C100": {
		Category:   CategoryTransport,
		Message:    "Message could not be sent",
		Detail:     "The contact endpoint could not be reached. Your input has been kept.",
		Suggestion: "Check your connection and submit again",
	},
	"C101": {
		Category:   CategoryTransport,
		Message:    "Endpoint rejected the message",
		Detail:     "The contact endpoint answered with a status other than 200 OK. Your input has been kept.",
		Suggestion: "Verify the endpoint URL and submit again",
	},

	// ============================================
	// Configuration Errors (C120-C129)
	// ============================================

	"C120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"C121": {
		Category:   CategoryConfig,
		Message:    "Configuration not found",
		Suggestion: "Pass --endpoint or create contact.json",
	},
	"C122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// CLI Errors (C130-C139)
	// ============================================

	"C130": {
		Category: CategoryCLI,
		Message:  "Prompt aborted",
		Detail:   "The interactive form was interrupted before it was submitted.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
