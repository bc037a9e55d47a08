package proto

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind classifies an inbound line.
type LineKind int

const (
	// KindMessage is plain chat text destined for the sender's room.
	KindMessage LineKind = iota
	// KindCommand is a slash command with arguments.
	KindCommand
)

// Recognized command names.
const (
	CmdNick  = "nick"
	CmdJoin  = "join"
	CmdLeave = "leave"
	CmdBye   = "bye"
	CmdPriv  = "priv"
)

// Line is one parsed inbound line. For KindCommand, Name and Args are set;
// for KindMessage, Text carries the chat text.
type Line struct {
	Kind LineKind
	Name string
	Args []string
	Text string
}

// ParseLine classifies a complete line (terminator already stripped).
//
// A line starting with '/' followed by anything but another '/' is a command.
// A line starting with "//" is chat text with one leading slash stripped, so
// "//test" reads as the message "/test". Everything else, including a bare
// "/", is chat text as-is.
//
// For /priv the first whitespace-delimited token is the recipient and the
// body is everything after exactly one separator rune, verbatim. A missing
// body leaves Args with just the recipient; argument validation is the
// dispatcher's job.
func ParseLine(raw string) Line {
	if strings.HasPrefix(raw, "//") {
		return Line{Kind: KindMessage, Text: raw[1:]}
	}
	if !strings.HasPrefix(raw, "/") || raw == "/" {
		return Line{Kind: KindMessage, Text: raw}
	}

	name, rest, _ := strings.Cut(raw[1:], " ")

	if name == CmdPriv {
		return Line{Kind: KindCommand, Name: name, Args: privArgs(rest)}
	}

	args := strings.Fields(rest)
	if len(args) == 0 {
		args = nil
	}
	return Line{Kind: KindCommand, Name: name, Args: args}
}

// privArgs splits "/priv" arguments: the recipient is the first
// whitespace-delimited token, the body is the raw remainder after one
// separator rune. The body keeps inner spaces and slashes untouched.
func privArgs(rest string) []string {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return nil
	}
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return []string{rest}
	}
	to := rest[:i]
	_, w := utf8.DecodeRuneInString(rest[i:])
	body := rest[i+w:]
	if body == "" {
		return []string{to}
	}
	return []string{to, body}
}
