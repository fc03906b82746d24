package services

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

const specialCodeLength = 6

// Alphabet with the easily confused characters (0/O, 1/I/L) removed.
const specialCodeChars = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

var codeAdjectives = []string{
	"Happy", "Brave", "Super", "Mighty", "Magic", "Swift",
	"Clever", "Bright", "Lucky", "Sunny", "Jolly", "Fancy",
	"Wild", "Cool", "Smart", "Kind", "Dancing", "Flying",
	"Jumping", "Glowing", "Sparkly", "Amazing", "Cosmic", "Dashing",
	"Friendly", "Gentle", "Playful", "Shining", "Speedy", "Bouncy",
	"Cheerful", "Peaceful", "Radiant", "Smiling", "Wonderful", "Zesty",
}

var codeNouns = []string{
	"Panda", "Tiger", "Dragon", "Unicorn", "Dolphin", "Eagle",
	"Lion", "Fox", "Wizard", "Knight", "Hero", "Star",
	"Rocket", "Robot", "Ninja", "Pirate", "Phoenix", "Mermaid",
	"Pegasus", "Butterfly", "Dinosaur", "Penguin", "Koala", "Puppy",
	"Kitten", "Monkey", "Elephant", "Giraffe", "Rainbow", "Dolphin",
	"Princess", "Astronaut", "Explorer", "Adventurer", "Champion", "Warrior",
}

var codeSeparators = regexp.MustCompile(`[\s-]+`)

// NormalizeCode maps a special code to its canonical lookup key: lowercase,
// with runs of whitespace and hyphens collapsed to a single hyphen. Applied
// at both write and read time so matching ignores case and spacing.
func NormalizeCode(code string) string {
	return codeSeparators.ReplaceAllString(strings.ToLower(code), "-")
}

// FormatCode renders a normalized code for display: each hyphen-delimited
// word capitalized and joined with spaces.
func FormatCode(code string) string {
	words := strings.Split(code, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// GenerateSpecialCode returns a short random code for parents who don't
// want a word-pair one.
func GenerateSpecialCode() string {
	code := make([]byte, specialCodeLength)
	for i := range code {
		code[i] = specialCodeChars[rand.IntN(len(specialCodeChars))]
	}
	return string(code)
}

// GenerateCodeNames returns count adjective+noun suggestions. Adjective and
// noun are sampled independently, so suggestions are not guaranteed
// distinct.
func GenerateCodeNames(count int) []string {
	names := make([]string, count)
	for i := range names {
		adjective := codeAdjectives[rand.IntN(len(codeAdjectives))]
		noun := codeNouns[rand.IntN(len(codeNouns))]
		names[i] = adjective + " " + noun
	}
	return names
}
