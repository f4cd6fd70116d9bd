package toolcall

import (
	"errors"
	"fmt"
)

// Sentinel errors for toolcall. Use errors.Is to check.
var (
	ErrToolCallParse    = errors.New("tool-call parse error")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrArgumentMismatch = errors.New("argument mismatch")
	ErrToolRaised       = errors.New("tool raised an error")
	ErrDuplicateTool    = errors.New("tool already registered")
	ErrInvalidTool      = errors.New("invalid tool declaration")
	ErrShutdown         = errors.New("registry is shutting down")
)

// ParseErrorKind identifies the parse stage that rejected the input.
type ParseErrorKind int

// Lexical failures come first, structural failures after.
const (
	ExpectedQuote ParseErrorKind = iota + 1
	UnterminatedString
	UnterminatedTripleString
	UnbalancedBraces
	NotADict
	UnquotedKey
	MissingColon
	UnexpectedEnd
	MissingKeys
	EmptyToolName
	ArgsNotDict
)

var parseErrorKindNames = map[ParseErrorKind]string{
	ExpectedQuote:            "expected quote",
	UnterminatedString:       "unterminated string",
	UnterminatedTripleString: "unterminated triple-quoted string",
	UnbalancedBraces:         "unbalanced braces",
	NotADict:                 "not a dict",
	UnquotedKey:              "unquoted key",
	MissingColon:             "missing colon",
	UnexpectedEnd:            "unexpected end",
	MissingKeys:              "missing keys",
	EmptyToolName:            "empty tool name",
	ArgsNotDict:              "args not a dict",
}

func (k ParseErrorKind) String() string {
	if s, ok := parseErrorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// Lexical reports whether the failure happened while scanning tokens
// rather than while matching the dict or envelope structure.
func (k ParseErrorKind) Lexical() bool {
	return k >= ExpectedQuote && k <= UnbalancedBraces
}

// ParseError is the single outward error of the parser and the extractor.
// Pos is a byte offset into the text being parsed at the failing stage, or -1
// when the failure is not tied to a position (e.g. MissingKeys). Span holds a
// short excerpt of the offending text.
type ParseError struct {
	Kind   ParseErrorKind
	Pos    int
	Detail string
	Span   string
}

func (e *ParseError) Error() string {
	return "tool-call parse error: " + e.Detail
}

// Unwrap lets errors.Is(err, ErrToolCallParse) match every parse failure.
func (e *ParseError) Unwrap() error { return ErrToolCallParse }

// spanWidth bounds ParseError.Span.
const spanWidth = 32

func newParseError(kind ParseErrorKind, s string, pos int, detail string) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Detail: detail, Span: excerpt(s, pos)}
}

func excerpt(s string, pos int) string {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s) {
		return ""
	}
	end := min(pos+spanWidth, len(s))
	return s[pos:end]
}

// DispatchErrorKind distinguishes dispatch failures, since the orchestrator
// reacts differently to each.
type DispatchErrorKind int

const (
	UnknownTool DispatchErrorKind = iota + 1
	ArgumentMismatch
	ToolRaised
)

func (k DispatchErrorKind) String() string {
	switch k {
	case UnknownTool:
		return "unknown tool"
	case ArgumentMismatch:
		return "argument mismatch"
	case ToolRaised:
		return "tool raised"
	default:
		return fmt.Sprintf("DispatchErrorKind(%d)", int(k))
	}
}

func (k DispatchErrorKind) sentinel() error {
	switch k {
	case UnknownTool:
		return ErrUnknownTool
	case ArgumentMismatch:
		return ErrArgumentMismatch
	case ToolRaised:
		return ErrToolRaised
	default:
		return nil
	}
}

// DispatchError is returned by Registry.Dispatch. It carries no retry state;
// the caller decides whether to retry. Err optionally holds the cause (the
// tool's own error, a recovered panic, a schema validation error).
type DispatchError struct {
	Kind   DispatchErrorKind
	Tool   string
	Detail string
	Err    error
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case UnknownTool:
		return fmt.Sprintf("tool %q is not registered", e.Tool)
	case ArgumentMismatch:
		return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Detail)
	default:
		return fmt.Sprintf("tool %q raised an error: %s", e.Tool, e.Detail)
	}
}

// Unwrap exposes both the kind sentinel and the cause, so errors.Is works for
// ErrArgumentMismatch as well as for e.g. context.DeadlineExceeded.
func (e *DispatchError) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// IsParseError returns true if err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// DispatchKind returns the kind of the DispatchError in err's chain, or 0.
func DispatchKind(err error) DispatchErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// argumentError lets a tool report an argument problem it detected itself;
// Dispatch turns it into ArgumentMismatch instead of ToolRaised.
type argumentError struct{ detail string }

func (e *argumentError) Error() string { return e.detail }

func (e *argumentError) Unwrap() error { return ErrArgumentMismatch }

// ArgumentErrorf formats an error that Dispatch reports as ArgumentMismatch.
func ArgumentErrorf(format string, a ...any) error {
	return &argumentError{detail: fmt.Sprintf(format, a...)}
}

// panicError wraps a recovered panic value; used by Registry and WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
