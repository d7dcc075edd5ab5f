// Package transport delivers contact form payloads to a remote HTTP endpoint.
//
// A Client POSTs the labelled fields (Name, Email, Phone, Message) as a
// multipart form. Only HTTP 200 counts as accepted; any other status is
// returned as a *StatusError and network failures are returned unchanged.
// The response body is drained but never interpreted.
//
// Every request is wrapped in an OpenTelemetry client span named
// "contact.submit", created from the global tracer provider unless
// WithTracerProvider is given.
//
//	client := transport.New("https://example.com/contact",
//	    transport.WithTimeout(10*time.Second),
//	    transport.WithSanitizer(transport.StripHTML()),
//	)
//	ctrl := contact.New(client)
package transport
