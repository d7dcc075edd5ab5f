package contact

// Hints shown next to the form when validation fails.
const (
	HintInvalidEmail    = "Please provide a valid email!"
	HintMissingRequired = "Please fill in all fields!"
)

// ValidationState is the result of the most recent validation checks.
type ValidationState struct {
	// EmailInvalid is set when the email captured at the last email check
	// failed IsValidEmail.
	EmailInvalid bool `json:"emailInvalid"`

	// MissingRequired is set when any field was empty at the last required
	// check.
	MissingRequired bool `json:"missingRequired"`
}

// Valid reports whether no validation flag is raised.
func (v ValidationState) Valid() bool {
	return !v.EmailInvalid && !v.MissingRequired
}

// Hints returns the user-facing messages for the raised flags.
func (v ValidationState) Hints() []string {
	var hints []string
	if v.EmailInvalid {
		hints = append(hints, HintInvalidEmail)
	}
	if v.MissingRequired {
		hints = append(hints, HintMissingRequired)
	}
	return hints
}

// checkpoints records the field values seen at the last validation points.
// ValidationState is computed from these snapshots only.
type checkpoints struct {
	required *Fields
	email    *string
}

func (c checkpoints) state() ValidationState {
	var v ValidationState
	if c.required != nil {
		v.MissingRequired = !c.required.Complete()
	}
	if c.email != nil {
		v.EmailInvalid = !IsValidEmail(*c.email)
	}
	return v
}

func (c *checkpoints) checkRequired(f Fields) {
	c.required = &f
}

func (c *checkpoints) checkEmail(email string) {
	c.email = &email
}
