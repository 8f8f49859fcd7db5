package catalog

// Command is one row in an entry's action list.
type Command struct {
	Separator bool
	Label     string
	Opcode    Opcode
	Payload   []byte
	// Detail carries longer descriptive text, such as a trophy description.
	Detail  string
	Options []*Option
}

// Option is one selectable alternative of a command.
type Option struct {
	Label string
	// Value is usually an opcode byte followed by a disambiguator byte.
	Value    []byte
	Selected int
}

// NewAction creates an actionable command.
func NewAction(g Glyph, label string, op Opcode) *Command {
	return &Command{Label: Label(g, label), Opcode: op}
}

// NewSeparator creates a group header.
func NewSeparator(title string) *Command {
	star := string([]byte{byte(GlyphStar)})
	return &Command{Separator: true, Label: "----- " + star + " " + title + " " + star + " -----"}
}

// NewNotice creates an informational row that carries no action.
func NewNotice(label string) *Command {
	return &Command{Separator: true, Label: label}
}

// NewOption creates an unselected option.
func NewOption(label string, value ...byte) *Option {
	return &Option{Label: label, Value: append([]byte(nil), value...), Selected: -1}
}

// WithOptions attaches options and returns the command for chaining.
func (c *Command) WithOptions(options ...*Option) *Command {
	c.Options = append(c.Options, options...)
	return c
}

// WithPayload copies payload onto the command and returns it for chaining.
func (c *Command) WithPayload(payload []byte) *Command {
	c.Payload = append([]byte(nil), payload...)
	return c
}
