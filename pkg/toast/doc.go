// Package toast provides feedback notifications for contact forms.
//
// Toasts are fire-and-forget: the form never waits for an acknowledgement.
// A Notifier is the surface the form controller talks to; the package ships
// three of them:
//
//   - ForEmitter dispatches a "contact:toast" event through any Emitter,
//     such as a live websocket connection.
//   - NewWriter prints coloured lines to a terminal.
//   - Recorder captures toasts in memory for tests.
//
// # Client-Side Handler
//
// Browsers attached to a live form receive a JSON event:
//
//	{"type": "contact:toast", "detail": {"level": "success", "message": "Message sent successfully!"}}
//
// and may render it with any toast library:
//
//	socket.addEventListener("message", (e) => {
//	    const ev = JSON.parse(e.data);
//	    if (ev.type === "contact:toast") {
//	        toast[ev.detail.level](ev.detail.message);
//	    }
//	});
//
// # Server-Side Usage
//
//	toast.Success(emitter, "Message sent successfully!")
//	toast.WithTitle(emitter, toast.TypeError, "Contact", "Network unreachable")
package toast
