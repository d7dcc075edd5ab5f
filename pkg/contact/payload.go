package contact

import "context"

// Labels of the submitted form fields.
const (
	LabelName    = "Name"
	LabelEmail   = "Email"
	LabelPhone   = "Phone"
	LabelMessage = "Message"
)

// Payload is the labelled data handed to a Transport.
type Payload struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// PayloadFrom builds a Payload from form values.
func PayloadFrom(f Fields) Payload {
	return Payload{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Contact,
		Message: f.Message,
	}
}

// KeyValue is one labelled payload entry.
type KeyValue struct {
	Key   string
	Value string
}

// Pairs returns the labelled entries in submission order.
func (p Payload) Pairs() []KeyValue {
	return []KeyValue{
		{LabelName, p.Name},
		{LabelEmail, p.Email},
		{LabelPhone, p.Phone},
		{LabelMessage, p.Message},
	}
}

// Transport delivers a Payload to the remote endpoint.
// A nil error means the endpoint accepted the submission.
type Transport interface {
	Send(ctx context.Context, p Payload) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, p Payload) error

func (f TransportFunc) Send(ctx context.Context, p Payload) error {
	return f(ctx, p)
}
