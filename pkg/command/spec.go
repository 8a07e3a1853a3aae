package command

import "strings"

// Framing selects how a Spec is turned into command bytes.
type Framing uint8

const (
	// FramingParameterized applies the bracket convention to the code and
	// to each parameter.
	FramingParameterized Framing = iota

	// FramingRaw sends the code and parameters verbatim.
	FramingRaw
)

// Feedback is a tri-state feedback switch. FeedbackDefault defers to the
// channel's FeedbackDefaults.
type Feedback uint8

const (
	FeedbackDefault Feedback = iota
	FeedbackOn
	FeedbackOff
)

// Resolve returns the effective setting given the global default.
func (f Feedback) Resolve(def bool) bool {
	switch f {
	case FeedbackOn:
		return true
	case FeedbackOff:
		return false
	default:
		return def
	}
}

// Spec describes one menu command. It is a value type; copies are
// independent apart from the shared Params backing array, which is never
// modified.
type Spec struct {
	Code    string
	Params  []string
	Framing Framing

	// SendFeedback triggers indicator commands on the scanner once this
	// command completes.
	SendFeedback bool

	LED       Feedback
	Buzzer    Feedback
	Vibration Feedback
}

// New returns a parameterized command with scanner feedback enabled.
func New(code string, params ...string) Spec {
	return Spec{Code: code, Params: params, SendFeedback: true}
}

// Raw returns a command sent verbatim without scanner feedback. Use it for
// codes that already carry their bracket and for indicator commands.
func Raw(code string, params ...string) Spec {
	return Spec{Code: code, Params: params, Framing: FramingRaw}
}

// EncodeToken applies the bracket convention: three-character tokens get a
// "[" prefix, four-character tokens a "]" prefix, others are unchanged.
func EncodeToken(tok string) string {
	switch len(tok) {
	case 3:
		return "[" + tok
	case 4:
		return "]" + tok
	default:
		return tok
	}
}

// Encode returns the command bytes carried in the command frame.
func (s Spec) Encode() []byte {
	var b strings.Builder
	enc := EncodeToken
	if s.Framing == FramingRaw {
		enc = func(tok string) string { return tok }
	}
	b.WriteString(enc(s.Code))
	for _, p := range s.Params {
		b.WriteString(enc(p))
	}
	return []byte(b.String())
}

func (s Spec) String() string {
	return string(s.Encode())
}
