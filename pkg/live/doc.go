// Package live hosts contact forms over WebSocket connections.
//
// Each connection owns one contact.Controller. The browser sends field
// events and the host answers with state snapshots and toasts, so the page
// only renders what it is told.
//
// # Protocol
//
// Client to server, one JSON object per text frame:
//
//	{"type": "change", "field": "email", "value": "ada@example.com"}
//	{"type": "blur",   "field": "email"}
//	{"type": "submit"}
//
// Server to client:
//
//	{"type": "contact:ready", "detail": {"sessionId": "..."}}
//	{"type": "contact:state", "detail": {"fields": {...}, "validation": {...}, "hints": [...], "phase": "idle", "inFlight": 0}}
//	{"type": "contact:toast", "detail": {"level": "success", "message": "Message sent successfully!"}}
//	{"type": "contact:error", "detail": {"message": "unknown event \"x\""}}
//
// Events from one connection are handled one at a time in arrival order.
// Submissions run in the background; a state event follows each completion.
//
// # Mounting
//
//	host := live.NewHost(live.Config{Transport: transport.New(endpoint)})
//	r := chi.NewRouter()
//	r.Mount("/", host.Routes())
//	http.ListenAndServe(":8080", r)
package live
