package sentiment

func loadValence() map[string]float64 {
	return map[string]float64{
		// positive
		"beat": 1.6, "beats": 1.6, "surge": 1.9, "surges": 1.9, "soar": 2.1, "soars": 2.1,
		"jump": 1.3, "jumps": 1.3, "rally": 1.7, "rallies": 1.7, "gain": 1.5, "gains": 1.5,
		"rise": 1.0, "rises": 1.0, "climb": 1.1, "climbs": 1.1, "record": 1.2, "growth": 1.6,
		"grow": 1.4, "grows": 1.4, "strong": 2.0, "stronger": 2.1, "robust": 1.9, "solid": 1.4,
		"profit": 1.6, "profits": 1.6, "profitable": 1.9, "upgrade": 1.8, "upgrades": 1.8,
		"upgraded": 1.8, "outperform": 1.7, "bullish": 2.0, "optimistic": 1.9, "win": 2.8,
		"wins": 2.7, "success": 2.7, "successful": 2.8, "improve": 1.9, "improved": 2.1,
		"improves": 1.9, "boost": 1.7, "boosts": 1.7, "expand": 1.0, "expands": 1.0,
		"approval": 2.1, "approved": 1.8, "launch": 0.8, "launches": 0.8, "innovative": 1.9,
		"breakthrough": 2.2, "dividend": 0.9, "buyback": 0.9, "partnership": 1.2, "good": 1.9,
		"great": 3.1, "excellent": 2.7, "positive": 2.6, "upbeat": 1.8, "exceed": 1.5,
		"exceeds": 1.5, "tops": 1.3, "raises": 0.9, "higher": 0.8, "confident": 2.2,
		// negative
		"miss": -1.4, "misses": -1.4, "missed": -1.4, "plunge": -2.1, "plunges": -2.1,
		"plummet": -2.4, "plummets": -2.4, "fall": -1.2, "falls": -1.2, "drop": -1.1,
		"drops": -1.1, "slump": -1.9, "slumps": -1.9, "decline": -1.3, "declines": -1.3,
		"loss": -1.8, "losses": -1.8, "weak": -1.9, "weaker": -1.9, "weakness": -1.6,
		"downgrade": -1.8, "downgrades": -1.8, "downgraded": -1.8, "cut": -1.1, "cuts": -1.1,
		"lawsuit": -1.7, "sued": -1.8, "fraud": -2.8, "probe": -1.2, "investigation": -1.2,
		"recall": -1.5, "recalls": -1.5, "layoffs": -1.9, "bankruptcy": -2.6, "default": -1.9,
		"warning": -1.4, "warns": -1.4, "crisis": -3.1, "risk": -1.1, "risks": -1.1,
		"concern": -1.2, "concerns": -1.2, "fears": -1.8, "bearish": -2.0, "lower": -0.8,
		"underperform": -1.7, "fail": -2.5, "fails": -2.5, "failure": -2.3, "bad": -2.5,
		"poor": -2.1, "negative": -2.7, "disappointing": -2.2, "disappoints": -2.1,
		"slowdown": -1.3, "delay": -1.1, "delays": -1.1, "halt": -1.2, "halts": -1.2,
		"fined": -1.5, "penalty": -1.6, "scandal": -2.4, "resigns": -1.0,
		"volatile": -1.0, "debt": -0.9, "breach": -1.9,
	}
}

func loadBoosters() map[string]float64 {
	return map[string]float64{
		"very": 1, "extremely": 1, "sharply": 1, "significantly": 1, "strongly": 1,
		"hugely": 1, "massive": 1, "massively": 1, "record-breaking": 1, "most": 1,
		"slightly": -1, "marginally": -1, "somewhat": -1, "barely": -1, "modestly": -1,
	}
}

func loadNegations() map[string]bool {
	return map[string]bool{
		"not": true, "no": true, "never": true, "without": true, "neither": true,
		"nor": true, "none": true, "nothing": true, "cannot": true,
	}
}
