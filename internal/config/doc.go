// Package config provides configuration parsing for the contactform command.
//
// The configuration is stored in contact.json (or contact.yaml) in the
// working directory or any of its parents. Environment variables override
// file values, and command-line flags override both.
//
// # Configuration File Structure
//
//	{
//	  "endpoint": "https://example.com/contact",
//	  "timeout": "15s",
//	  "stripHTML": false,
//	  "liveEmailGate": false,
//	  "serve": {
//	    "address": "localhost:8080",
//	    "metricsPath": "/metrics",
//	    "allowedOrigins": ["https://example.com"]
//	  },
//	  "messages": {
//	    "success": "Message sent successfully!",
//	    "fallback": "An error occurred"
//	  }
//	}
//
// # Environment
//
//	CONTACT_ENDPOINT, CONTACT_TIMEOUT, CONTACT_STRIP_HTML,
//	CONTACT_LIVE_EMAIL_GATE, CONTACT_ADDRESS, CONTACT_METRICS_PATH,
//	CONTACT_ALLOWED_ORIGINS (semicolon separated),
//	CONTACT_SUCCESS_MESSAGE, CONTACT_FALLBACK_MESSAGE
package config
