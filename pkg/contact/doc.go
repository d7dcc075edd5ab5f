// Package contact implements the input, validation, and submission state
// machine of a single flat contact form.
//
// # Overview
//
// A Controller owns four required fields (name, email, contact, message) and
// the validation state derived from them. Presentation layers feed it three
// kinds of events:
//
//   - OnFieldChange replaces a field value (truncated to the field limit).
//   - OnBlur re-runs the required check, and for the email field also the
//     email syntax check.
//   - OnSubmit gates on the checks and hands a labelled Payload to a
//     Transport.
//
// # Basic Usage
//
//	c := contact.New(transport.New(endpoint),
//	    contact.WithNotifier(toast.NewWriter(os.Stdout, true)),
//	)
//
//	c.OnFieldChange(contact.FieldName, "Ada")
//	c.OnBlur(contact.FieldName)
//	// ...
//	attempt := c.OnSubmit(ctx)
//	<-attempt.Done()
//
// # Submission
//
// Each OnSubmit returns an Attempt that moves through
// Validating -> Blocked | Sending -> Succeeded | Failed. Sending runs on its
// own goroutine and the form stays interactive; several attempts may be in
// flight and their outcomes are applied in completion order.
//
// The submit gate trusts the email flag computed at the last email blur
// rather than re-checking the live value. WithLiveEmailGate switches to
// re-checking at submit time.
package contact
