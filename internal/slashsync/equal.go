package slashsync

import (
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Equal reports whether the description and option lists of two definitions
// match. Options are compared element by element in declared order.
func Equal(a, b *discordgo.ApplicationCommand) bool {
	return a.Description == b.Description && OptionsEqual(a.Options, b.Options)
}

func OptionsEqual(a, b []*discordgo.ApplicationCommandOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !optionEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Required == b.Required &&
		a.Autocomplete == b.Autocomplete &&
		slices.Equal(a.ChannelTypes, b.ChannelTypes) &&
		floatPtrEqual(a.MinValue, b.MinValue) &&
		a.MaxValue == b.MaxValue &&
		intPtrEqual(a.MinLength, b.MinLength) &&
		a.MaxLength == b.MaxLength &&
		choicesEqual(a.Choices, b.Choices) &&
		OptionsEqual(a.Options, b.Options)
}

// choicesEqual compares values by their printed form: the remote side decodes
// every number as float64 while local definitions may use ints.
func choicesEqual(a, b []*discordgo.ApplicationCommandOptionChoice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if a[i].Name != b[i].Name || fmt.Sprint(a[i].Value) != fmt.Sprint(b[i].Value) {
			return false
		}
	}
	return true
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
