package wire

// Envelope is the response shape shared by every service call: a precheck
// status, a cost where relevant, and an opaque payload whose layout depends
// on the operation.
//
// The status and cost are deliberately first so the retry decision can be
// made from a header-only decode, without assuming the payload is parseable.
type Envelope struct {
	Status  Status
	Cost    uint64
	Payload []byte
}

func (env *Envelope) Marshal() []byte {
	var e Encoder
	e.Uint(uint64(env.Status))
	e.Uint(env.Cost)
	e.Bytes(env.Payload)
	return e.Finish()
}

// DecodeEnvelopeHeader extracts the status and cost without touching the
// payload. This is the only decode performed before the retry decision.
func DecodeEnvelopeHeader(raw []byte) (Status, uint64, error) {
	d := NewDecoder(raw)
	status := Status(d.Uint())
	cost := d.Uint()
	if err := d.Err(); err != nil {
		return 0, 0, err
	}
	return status, cost, nil
}

// UnmarshalEnvelope decodes the full response envelope.
func UnmarshalEnvelope(raw []byte) (*Envelope, error) {
	d := NewDecoder(raw)
	var env Envelope
	env.Status = Status(d.Uint())
	env.Cost = d.Uint()
	env.Payload = d.Bytes()
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return &env, nil
}
