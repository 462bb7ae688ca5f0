package wordlist

import (
	"slices"

	"github.com/verte-zerg/dictee/internal/model"
)

// DefaultList is the list selected when none is configured.
const DefaultList = "Nederlandse wateren"

var builtins = []model.WordList{
	{
		Name: "Nederlandse wateren",
		Entries: []string{
			"Waddenzee",
			"IJsselmeer",
			"Markermeer",
			"IJssel",
			"Nederrijn",
			"Waal",
			"Maas",
			"Noordzeekanaal",
			"Amsterdam-Rijnkanaal",
			"Lek",
			"Nieuwe Waterweg",
			"Oosterschelde",
			"Westerschelde",
		},
		Random:  true,
		Builtin: true,
	},
	{
		Name: "Bekende artiesten",
		Entries: []string{
			"The Weeknd",
			"Billie Eilish",
			"Taylor Swift",
			"Drake",
			"Ariana Grande",
			"Post Malone",
			"Dua Lipa",
			"Kanye West",
			"Travis Scott",
			"Harry Styles",
			"Olivia Rodrigo",
			"Shakira",
			"Bad Bunny",
			"Kendrick Lamar",
			"Lady Gaga",
			"Ed Sheeran",
			"Rihanna",
			"Justin Bieber",
		},
		Random:  true,
		Builtin: true,
	},
}

// Builtins returns copies of the built-in lists in display order.
func Builtins() []model.WordList {
	out := make([]model.WordList, len(builtins))
	for i, list := range builtins {
		list.Entries = slices.Clone(list.Entries)
		out[i] = list
	}
	return out
}

func builtin(name string) (model.WordList, bool) {
	for _, list := range builtins {
		if list.Name == name {
			list.Entries = slices.Clone(list.Entries)
			return list, true
		}
	}
	return model.WordList{}, false
}
