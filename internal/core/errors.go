package core

import "errors"

// Error codes for domain errors, used in logs; the wire protocol itself
// reports every rejection as a bare ERROR line.
const (
	ErrCodeNickTaken      = "nick_taken"
	ErrCodeNotRegistered  = "not_registered"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeBadArguments   = "bad_arguments"
	ErrCodeUnknownCommand = "unknown_command"
	ErrCodeTargetNotFound = "target_not_found"
)

var (
	ErrNickTaken      = errors.New("nickname already taken")
	ErrNotRegistered  = errors.New("not registered")
	ErrNotInRoom      = errors.New("not in room")
	ErrBadArguments   = errors.New("bad arguments")
	ErrUnknownCommand = errors.New("unknown command")
	ErrTargetNotFound = errors.New("target not found")
)

// errorCode maps a domain error to its log code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNickTaken):
		return ErrCodeNickTaken
	case errors.Is(err, ErrNotRegistered):
		return ErrCodeNotRegistered
	case errors.Is(err, ErrNotInRoom):
		return ErrCodeNotInRoom
	case errors.Is(err, ErrBadArguments):
		return ErrCodeBadArguments
	case errors.Is(err, ErrUnknownCommand):
		return ErrCodeUnknownCommand
	case errors.Is(err, ErrTargetNotFound):
		return ErrCodeTargetNotFound
	default:
		return "internal"
	}
}
