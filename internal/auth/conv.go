package auth

// MsgStyle is the closed set of conversation message kinds a framework
// module can send.
type MsgStyle int

const (
	EchoOff MsgStyle = iota + 1
	EchoOn
	ErrorMsg
	TextInfo
)

// Conversation replays credentials captured at the prompt. By the time
// the framework asks, both answers are already in hand; nothing here
// touches the terminal for input again.
type Conversation struct {
	Username string
	Password []byte

	// Display receives error and informational messages for the
	// terminal. May be nil.
	Display func(msg string)
}

// Respond answers one framework message: echo-on prompts get the login
// name, echo-off prompts the password, display styles are shown and
// acknowledged. Unrecognized styles get an empty reply rather than an
// error so unusual module stacks keep moving.
func (c *Conversation) Respond(style MsgStyle, msg string) (string, error) {
	switch style {
	case EchoOn:
		return c.Username, nil
	case EchoOff:
		return string(c.Password), nil
	case ErrorMsg, TextInfo:
		if c.Display != nil {
			c.Display(msg)
		}
		return "", nil
	default:
		return "", nil
	}
}

// Wipe overwrites the captured password. Call as soon as the last
// framework exchange is done.
func (c *Conversation) Wipe() {
	for i := range c.Password {
		c.Password[i] = 0
	}
	c.Password = nil
}
