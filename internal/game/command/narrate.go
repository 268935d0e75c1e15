package command

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// sentinels are the errors whose wrapped detail is already phrased for the traveler.
var sentinels = []error{
	world.ErrUnknownRoom,
	world.ErrUnknownPathway,
	world.ErrNotFound,
	world.ErrAmbiguous,
	world.ErrContainerClosed,
	world.ErrAlreadyInState,
	world.ErrContainment,
	world.ErrNotEquippable,
}

// Narrate turns a command error into a line of prose for the traveler.
//
// Postcondition: Returns "" for a nil error.
func Narrate(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, world.ErrNoSuchExit):
		return "You cannot go that way."
	case errors.Is(err, world.ErrPathBlocked):
		return "The way is closed."
	case errors.Is(err, world.ErrInventoryFull):
		return "You cannot carry any more."
	case errors.Is(err, ErrUnknownCommand):
		return "I don't understand that. Type help for a list of commands."
	case errors.Is(err, ErrUsage):
		return "Usage: " + detail(err, ErrUsage)
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return sentence(detail(err, s))
		}
	}
	return "Something went wrong."
}

// detail returns the text following the sentinel's own message in err.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// sentence capitalizes s and ends it with a full stop.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
