package ota

import (
	"encoding/xml"
	"strings"
)

// OutcomeKind is the tri-state result of an OTA response envelope.
type OutcomeKind int

const (
	// OutcomeSuccess — an explicit <Success/> element is present.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeError — one or more <Error> elements are present.
	OutcomeError
	// OutcomeAmbiguous — neither is present. Some deployments acknowledge
	// with a bare envelope and never emit <Success/>.
	OutcomeAmbiguous
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "ambiguous"
	}
}

type Outcome struct {
	Kind      OutcomeKind
	EchoToken string
	Errors    []ErrorElem
}

// OK reports whether the outcome counts as an acknowledgment.
// ambiguousAsSuccess is the named heuristic for envelopes that are well formed
// but carry neither <Success/> nor <Errors>; callers that enable it should log
// every hit so its firing rate stays auditable.
func (o Outcome) OK(ambiguousAsSuccess bool) bool {
	switch o.Kind {
	case OutcomeSuccess:
		return true
	case OutcomeAmbiguous:
		return ambiguousAsSuccess
	default:
		return false
	}
}

// ErrorText joins the remote error texts into one line for logs and
// propagated failures.
func (o Outcome) ErrorText() string {
	parts := make([]string, 0, len(o.Errors))
	for _, e := range o.Errors {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			text = e.ShortText
		}
		if e.Code != "" {
			text = e.Code + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "; ")
}

// genericRS matches any response envelope: no XMLName, so the root element
// name (and namespace) is not constrained.
type genericRS struct {
	EchoToken string   `xml:"EchoToken,attr"`
	Success   *Success `xml:"Success"`
	Errors    *Errors  `xml:"Errors"`
}

// ParseResponse classifies a response document regardless of which ...RS root
// it carries. Malformed XML yields a *ParseError.
func ParseResponse(data []byte) (Outcome, error) {
	var rs genericRS
	if err := xml.Unmarshal(data, &rs); err != nil {
		return Outcome{}, newParseError(MsgUnknown, data, err)
	}
	out := Outcome{EchoToken: rs.EchoToken}
	switch {
	case rs.Errors != nil && len(rs.Errors.Errors) > 0:
		out.Kind = OutcomeError
		out.Errors = rs.Errors.Errors
	case rs.Success != nil:
		out.Kind = OutcomeSuccess
	default:
		out.Kind = OutcomeAmbiguous
	}
	return out, nil
}
