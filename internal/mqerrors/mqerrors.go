package mqerrors

import "fmt"

// GameError is an error raised while carrying out a player command. Either the
// command asks for something impossible or something that is not allowed at
// the current time.
//
// GameError includes a human-readable message to show to the player as well as
// a typical more technical "error message" style message.
type gameError struct {
	msg   string
	human string
	wrap  error
}

func (e *gameError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *gameError) GameMessage() string {
	return e.human
}

// Unwrap gives the error that the GameError wraps, if it wraps one.
func (e *gameError) Unwrap() error {
	return e.wrap
}

// Game returns a new GameError that has both the message to show the player
// and the technical description of the error.
func Game(game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got GameError(%q)", game)
	}
	return &gameError{
		msg:   technical,
		human: game,
	}
}

// Gamef returns a new GameError that has a message to show to the player and
// an automatically generated Error() description. The arguments given are the
// format string and the arguments to the format string.
func Gamef(gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return Game(gameMessage, "")
}

// WrapGame returns a new GameError that has both the message to show the
// player and the technical description of the error, and that wraps the given
// error.
func WrapGame(e error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got GameError(%q)", game)
	}
	return &gameError{
		msg:   technical,
		human: game,
		wrap:  e,
	}
}

// WrapGamef returns a new GameError that has both the message to show the
// player and an automatically generated Error() description, and that wraps
// the given error. The arguments given are the error to wrap, then the format
// followed by its arguments.
func WrapGamef(e error, gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return WrapGame(e, gameMessage, "")
}

// GameMessage gets the message to display to the player for the given error.
// If it is one of the types defined in mqerrors, the special game message is
// returned (if it exists). Otherwise, err.Error() is returned.
func GameMessage(err error) string {
	if gameErr, ok := err.(*gameError); ok {
		return gameErr.GameMessage()
	}
	return err.Error()
}
