package util

import (
	"fmt"
	"math/rand"
)

var nameAdjectives = []string{
	"afternoon", "aged", "ancient", "autumn", "billowing",
	"bitter", "black", "blue", "bold", "broken",
	"calm", "cold", "cool", "crimson", "damp",
	"dark", "dawn", "delicate", "dry", "empty",
	"evening", "falling", "floral", "fragrant", "frosty",
	"golden", "green", "hidden", "icy", "late",
	"lingering", "little", "lively", "long", "misty",
	"morning", "muddy", "nameless", "noble", "old",
	"patient", "polished", "proud", "purple", "quiet",
	"red", "restless", "rough", "shy", "silent",
	"silvery", "slender", "small", "smooth", "snowy",
	"solitary", "sparkling", "spring", "stately", "still",
	"strong", "summer", "twilight", "wandering", "weathered",
	"white", "wild", "winter", "withered", "young",
}

var nameNouns = []string{
	"bird", "breeze", "brook", "bush", "butterfly",
	"chasm", "cherry", "cliff", "cloud", "dawn",
	"dew", "dream", "dust", "feather", "field",
	"fire", "firefly", "flower", "foam", "fog",
	"forest", "frog", "frost", "glade", "glitter",
	"grass", "haze", "hill", "horizon", "lake",
	"leaf", "lily", "meadow", "mist", "moon",
	"morning", "mountain", "night", "pebble", "pine",
	"planet", "plateau", "pond", "rain", "ridge",
	"river", "sea", "shadow", "silence", "sky",
	"smoke", "snow", "snowflake", "sound", "star",
	"stream", "sun", "sunset", "surf", "thunder",
	"tree", "violet", "voice", "water", "waterfall",
	"wave", "wildflower", "wind", "wood",
}

// GenerateVMName returns a random haiku-style machine name like
// "misty-river-4821". The result always passes ValidateVMName.
func GenerateVMName() string {
	adj := nameAdjectives[rand.Intn(len(nameAdjectives))]
	noun := nameNouns[rand.Intn(len(nameNouns))]

	return fmt.Sprintf("%s-%s-%04d", adj, noun, rand.Intn(10000))
}
