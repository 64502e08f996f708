package protocol

// Command is one member of the closed gesture vocabulary.
type Command int

const (
	PlayPause Command = iota
	Next
	Previous
	VolumeUp
	VolumeDown
)

// Wire tokens, exact and case-sensitive.
const (
	TokenPlayPause  = "PLAY_PAUSE"
	TokenNext       = "NEXT"
	TokenPrevious   = "PREV"
	TokenVolumeUp   = "VOL_UP"
	TokenVolumeDown = "VOL_DOWN"
)

var tokens = map[string]Command{
	TokenPlayPause:  PlayPause,
	TokenNext:       Next,
	TokenPrevious:   Previous,
	TokenVolumeUp:   VolumeUp,
	TokenVolumeDown: VolumeDown,
}

// Commands lists every command in vocabulary order.
var Commands = []Command{PlayPause, Next, Previous, VolumeUp, VolumeDown}

// String returns the wire token of the command
func (c Command) String() string {
	switch c {
	case PlayPause:
		return TokenPlayPause
	case Next:
		return TokenNext
	case Previous:
		return TokenPrevious
	case VolumeUp:
		return TokenVolumeUp
	case VolumeDown:
		return TokenVolumeDown
	default:
		return "UNKNOWN"
	}
}

// Parse looks line up in the vocabulary. The second result is false for
// anything that is not an exact token match; that is not an error.
func Parse(line string) (Command, bool) {
	cmd, ok := tokens[line]
	return cmd, ok
}
