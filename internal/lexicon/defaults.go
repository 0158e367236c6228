package lexicon

// Default returns the built-in word lists
func Default() *Lexicons {
	return &Lexicons{
		Profanity: NewWordSet(
			"damn", "hell", "shit", "fuck", "fucking", "fucked", "bullshit", "crap",
			"piss", "ass", "asshole", "bitch", "bastard", "wtf", "omfg", "ffs",
			"motherfucker", "goddamn", "goddammit", "dammit", "bloody", "bugger",
			"shitty", "crappy", "sucks", "dumbass", "dickhead", "moron", "idiot",
			"stupid", "retard", "fag", "bro", "dude",
			// obfuscated spellings
			"f*ck", "sh*t", "b*tch", "a**hole", "fck", "sht", "fuk", "fuc",
			"effing", "frigging", "freaking", "darn", "heck",
		),
		PositiveEngagement: NewWordSet(
			"amazing", "awesome", "incredible", "fantastic", "brilliant", "genius",
			"revolutionary", "breakthrough", "stunning", "spectacular", "outstanding",
			"exceptional", "remarkable", "extraordinary", "phenomenal", "magnificent",
			"wow", "omg", "holy", "mind-blowing", "game-changer", "life-changing",
			"love", "adore", "obsessed", "addicted", "excited", "thrilled",
			"grateful", "blessed", "lucky", "proud", "impressed", "inspired",
		),
		NegativeEngagement: NewWordSet(
			"terrible", "awful", "horrible", "disgusting", "pathetic", "useless",
			"worthless", "garbage", "trash", "waste", "disaster", "failure",
			"disappointed", "frustrated", "angry", "furious", "outraged", "pissed",
			"hate", "loathe", "despise", "annoyed", "irritated", "sick", "tired",
			"broken", "ruined", "destroyed", "screwed", "doomed", "hopeless",
		),
		QuestionIndicators: NewWordSet(
			"why", "how", "what", "when", "where", "who", "which", "whose",
			"can", "could", "would", "should", "will", "do", "does", "did",
			"is", "are", "was", "were", "has", "have", "had",
		),
		ViralIndicators: NewWordSet(
			"breaking", "urgent", "alert", "update", "confirmed", "exclusive",
			"leaked", "revealed", "exposed", "shocking", "unbelievable", "insane",
			"crazy", "wild", "epic", "massive", "huge", "biggest", "first",
			"never", "always", "everyone", "nobody", "everything", "nothing",
		),
		StopWords: NewWordSet(
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
			"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
			"will", "would", "should", "could", "can", "may", "might", "must", "shall", "this", "that",
			"these", "those", "i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
			"my", "your", "his", "its", "our", "their", "just", "now", "then", "here", "there", "when",
			"where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some",
			"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very", "get", "got",
			"make", "made", "take", "come", "go", "know", "think", "see", "want", "use", "find", "give",
			"tell", "ask", "work", "seem", "feel", "try", "leave", "call", "reddit", "post", "comment",
			"article", "news", "says", "said", "new", "first", "last", "long", "great", "little",
			"good", "right", "big", "high", "different", "small", "large", "next", "early", "young", "important",
			"public", "bad", "able",
		),
		PriorityKeywords: NewWordSet(
			"ai", "artificial intelligence", "machine learning", "chatgpt", "openai", "bitcoin", "crypto",
			"climate", "tesla", "spacex", "twitter", "meta", "google", "apple", "microsoft", "amazon",
			"ukraine", "russia", "china", "election", "covid", "vaccine", "inflation", "economy",
			"stocks", "market", "technology", "science", "research", "breakthrough", "innovation",
		),
		CorrelationVocabulary: NewWordSet(
			"ai", "artificial intelligence", "machine learning", "bitcoin", "crypto", "cryptocurrency",
			"climate", "environment", "tesla", "spacex", "twitter", "meta", "facebook", "google",
			"apple", "microsoft", "amazon", "netflix", "ukraine", "russia", "china", "election",
			"covid", "vaccine", "inflation", "economy", "stocks", "market", "technology", "science",
			"research", "breakthrough", "innovation", "startup", "ipo", "earnings", "gaming",
			"iphone", "android", "cybersecurity", "blockchain", "nft", "metaverse", "space",
		),
		UrgencyWords: NewWordSet(
			"breaking", "urgent", "alert", "developing", "live", "update",
		),
		TrustedSources: NewWordSet(
			"reuters", "associated press", "bbc", "npr",
		),
		MajorSources: NewWordSet(
			"cnn", "fox news", "msnbc",
		),
	}
}
