package command

// ArgType tags how a raw token is coerced.
type ArgType string

const (
	ArgString     ArgType = "string"
	ArgMString    ArgType = "mstring"
	ArgChar       ArgType = "char"
	ArgNumber     ArgType = "number"
	ArgInt        ArgType = "int"
	ArgFloat      ArgType = "float"
	ArgBoolean    ArgType = "boolean"
	ArgColor      ArgType = "color"
	ArgGuild      ArgType = "guild"
	ArgMember     ArgType = "member"
	ArgUser       ArgType = "user"
	ArgChannel    ArgType = "channel"
	ArgMessage    ArgType = "message"
	ArgInvite     ArgType = "invite"
	ArgEmoji      ArgType = "emoji"
	ArgRole       ArgType = "role"
	ArgPermission ArgType = "permission"
	ArgTime       ArgType = "time"
	ArgCommand    ArgType = "command"
)

var argLabels = map[ArgType]string{
	ArgString:     "string",
	ArgMString:    "string",
	ArgChar:       "character",
	ArgNumber:     "number",
	ArgInt:        "integer (whole number)",
	ArgFloat:      "floating-point number",
	ArgBoolean:    "true/false",
	ArgColor:      "hexadecimal color",
	ArgGuild:      "server",
	ArgMember:     "server member",
	ArgUser:       "discord user",
	ArgChannel:    "channel",
	ArgMessage:    "message",
	ArgInvite:     "server invite",
	ArgEmoji:      "emoji",
	ArgRole:       "server role",
	ArgPermission: "permission string",
	ArgTime:       "duration",
	ArgCommand:    "command",
}

// Label returns the human readable name used in help output.
func (t ArgType) Label() string {
	if l, ok := argLabels[t]; ok {
		return l
	}
	return string(t)
}

// Known reports whether t is one of the declared argument types.
func (t ArgType) Known() bool {
	_, ok := argLabels[t]
	return ok
}

// Argument is a positional parameter declaration.
type Argument struct {
	Name        string
	Description string
	// Required defaults to true when nil.
	Required *bool
	Type     ArgType
}

func (a Argument) IsRequired() bool { return a.Required == nil || *a.Required }

// Optional returns a pointer to false, for Argument.Required.
func Optional() *bool {
	f := false
	return &f
}
