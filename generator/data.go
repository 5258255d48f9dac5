package generator

// vibes steer topic generation away from the same handful of subjects.
var vibes = []string{
	"Pop Culture & Internet", "Obscure History", "Modern Technology",
	"Weird Biology", "Culinary Arts", "Video Games",
	"Space Exploration", "True Crime", "Mythology",
	"Celebrity Gossip", "Quantum Physics", "90s Music",
	"Anime & Manga", "Corporate Horror", "Extreme Sports",
}

// roastStyles flavour the spoken feedback.
var roastStyles = []string{
	"so mean",
	"like someone still running Windows XP",
	"like a dad joke",
	"like a Shakespearean insult",
	"like a stand-up comedian",
	"like a pirate whose compass is broken",
	"like their mom could do better",
	"like their CPU needs an upgrade",
}
