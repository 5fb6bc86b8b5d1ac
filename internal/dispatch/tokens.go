package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

// Tokenize splits a prefixed message into a command name and its raw
// arguments. ok is false when content does not start with prefix or names
// nothing.
func Tokenize(content, prefix string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// OptionTokens lays interaction options out as raw tokens in the order the
// command declares its arguments. Options for undeclared arguments are
// dropped. supplied marks the arguments the user gave; a skipped argument
// before a supplied one holds an empty placeholder token.
func OptionTokens(cmd *command.Command, opts []*discordgo.ApplicationCommandInteractionDataOption) (tokens []string, supplied []bool) {
	if len(cmd.Args) == 0 {
		tokens = make([]string, 0, len(opts))
		supplied = make([]bool, 0, len(opts))
		for _, o := range opts {
			tokens = append(tokens, optionString(o))
			supplied = append(supplied, true)
		}
		return tokens, supplied
	}

	byName := make(map[string]string, len(opts))
	for _, o := range opts {
		byName[strings.ToLower(o.Name)] = optionString(o)
	}
	tokens = make([]string, 0, len(cmd.Args))
	supplied = make([]bool, 0, len(cmd.Args))
	last := -1
	for i, a := range cmd.Args {
		v, ok := byName[strings.ToLower(a.Name)]
		tokens = append(tokens, v)
		supplied = append(supplied, ok)
		if ok {
			last = i
		}
	}
	return tokens[:last+1], supplied[:last+1]
}

func optionString(o *discordgo.ApplicationCommandInteractionDataOption) string {
	switch v := o.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
