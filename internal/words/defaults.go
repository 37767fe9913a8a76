package words

// Built-in dictionary used when no word file is configured.

var defaultEasyWords = []string{
	"cat", "dog", "sun", "car", "tree", "fish", "house", "star", "ball", "book",
	"moon", "bird", "cake", "door", "shoe", "apple", "chair", "cloud", "heart", "pizza",
	"smile", "train", "snake", "clock", "bread", "candle", "flower", "banana", "ladder", "rocket",
}

var defaultMediumWords = []string{
	"garden", "bridge", "castle", "dragon", "guitar", "island", "jacket", "kitchen", "lantern", "mirror",
	"pencil", "rainbow", "sandwich", "telescope", "umbrella", "volcano", "windmill", "yogurt", "zipper", "anchor",
	"balloon", "compass", "dolphin", "elephant", "firework", "giraffe", "hammock", "igloo", "jungle", "koala",
}

var defaultHardWords = []string{
	"accordion", "boomerang", "chandelier", "drawbridge", "escalator", "flamingo", "gondola", "hourglass", "iceberg", "jackhammer",
	"kaleidoscope", "lighthouse", "metronome", "nutcracker", "observatory", "periscope", "quicksand", "rollercoaster", "stethoscope", "trampoline",
	"unicycle", "ventriloquist", "waterfall", "xylophone", "yardstick", "zeppelin", "avalanche", "blacksmith", "catapult", "dandelion",
}
