package rules

import "github.com/signalmine/painsignal/internal/domain"

// DefaultVersion identifies the built-in rules revision. Bump when the
// tables below change so reprocessed corpora can pin a revision.
const DefaultVersion = "2025.08"

// Default returns a fresh copy of the built-in rules table.
func Default() *Table {
	return &Table{
		Version: DefaultVersion,
		Keywords: KeywordTiers{
			High: []string{
				"hate", "terrible", "awful", "horrible", "unbearable",
				"infuriating", "nightmare", "worst", "useless", "unusable",
				"furious", "can't stand", "cant stand", "sick of", "fed up",
				"driving me crazy", "driving me insane", "waste of money",
				"scam", "rip off", "ripoff", "deal breaker", "dealbreaker",
				"gave up on", "absolutely broken",
			},
			Medium: []string{
				"frustrating", "frustrated", "annoying", "annoyed",
				"disappointing", "disappointed", "crash", "crashes",
				"crashing", "buggy", "glitchy", "laggy", "freezes",
				"keeps freezing", "unreliable", "doesn't work",
				"does not work", "not working", "stopped working",
				"keeps failing", "hard to use", "difficult to use",
				"painful to use", "clunky", "broken",
			},
			Low: []string{
				"wish", "hope", "would be nice", "could be better",
				"lacking", "missing", "limited", "not ideal",
				"inconvenient", "tedious", "hard", "tricky",
				"wondering if", "curious if", "minor issue", "slightly",
			},
			Solution: []string{
				"looking for", "searching for", "need a way",
				"is there a way", "how do i", "how can i", "how do you",
				"alternative to", "any alternatives", "recommend",
				"recommendations", "suggestions", "workaround", "solution",
				"need help", "trying to find", "anyone know", "any tool",
			},
			WTPStrong: []string{
				"i'd pay", "i would pay", "id pay", "take my money",
				"shut up and take my money", "willing to pay",
				"happy to pay", "gladly pay", "pay for", "pay extra",
				"pay good money", "instant buy", "where do i sign up",
			},
			WTPEnterprise: []string{
				"enterprise plan", "team license", "per seat",
				"procurement", "for my team", "for my company",
				"business tier", "company card",
			},
			WTPFinancial: []string{
				"budget", "pricing", "subscription", "price point",
				"worth the money", "cost us", "spend on",
			},
			WTPPurchase: []string{
				"buy", "bought", "purchase", "upgrade", "upgraded",
				"premium", "pro version", "paid version", "paid plan",
				"license",
			},
			WTPValue: []string{
				"worth it", "good value", "great value", "value for money",
				"bang for the buck", "pays for itself",
			},
		},
		NegativeContext: []string{
			`anyone else (frustrated|struggling|annoyed|having|hate)`,
			`used to (struggle|have trouble|hate|be frustrated|annoy)`,
			`\bused to\b.*\bbut (now|anymore|not)`,
			`\bno longer (a problem|an issue|a struggle|broken)`,
			`\b(fixed|resolved|solved) (it|this|that|now|recently)\b`,
			`\bmy (friend|coworker|colleague|boss|wife|husband|partner|brother|sister)\b`,
			`\bimagine (if|how|being)\b`,
			`\bwhat if\b`,
			`\bhypothetically\b`,
			`\bif i had to\b`,
			`\b(their|the) competitor'?s?\b`,
			`\bcompetitors? (are|is|was|were)\b`,
			`\bunlike (them|the other)`,
		},
		WTPExclusions: []string{
			`budget (was|were|got|has been|being) (cut|slashed|frozen|reduced)`,
			`budget (cut|cuts|freeze|constraints?|approval|meeting|review)`,
			`\b(company|department|team|our|quarterly|annual) budget\b`,
			`\bover budget\b`,
			`\b(refund|refunded|money back|chargeback)\b`,
			`\bregret (buying|paying|purchasing|subscribing)\b`,
			`\bwasted? (of )?(my |our )?money\b`,
			`\btoo expensive\b`,
			`\bnot worth (it|the (price|money|cost))\b`,
			`\b(no|zero|negative) roi\b`,
			`\broi (isn'?t|is not|wasn'?t|was not)\b`,
			`cancel(led|ing|ed)? (my|the|our) subscription`,
			`\bprice (hike|increase|gouging)\b`,
		},
		Emotions: map[string][]string{
			string(domain.EmotionFrustration): {
				"frustrated", "frustrating", "annoying", "annoyed", "hate",
				"fed up", "sick of", "infuriating", "driving me crazy",
				"angry", "furious", "rage",
			},
			string(domain.EmotionAnxiety): {
				"worried", "worry", "anxious", "anxiety", "scared",
				"afraid", "nervous", "stressed", "stressful", "panic",
				"terrified",
			},
			string(domain.EmotionDisappointment): {
				"disappointed", "disappointing", "let down", "letdown",
				"expected better", "expected more", "underwhelmed",
				"underwhelming", "regret",
			},
			string(domain.EmotionConfusion): {
				"confused", "confusing", "don't understand",
				"dont understand", "no idea", "unclear", "makes no sense",
				"can't figure out", "cant figure out",
			},
			string(domain.EmotionHope): {
				"hope", "hopefully", "wish", "would love",
				"looking forward", "fingers crossed", "excited for",
				"can't wait", "cant wait",
			},
		},
		Anchors: AnchorTexts{
			Praise: "This product is amazing. I love it, it works " +
				"perfectly, great experience, highly recommend, five " +
				"stars, best app I have ever used, flawless and delightful.",
			Complaint: "This product is frustrating and broken. It " +
				"crashes constantly, loses my data, wastes my time, " +
				"support never responds, and I desperately need a fix.",
			Categories: map[domain.Category]string{
				domain.CategoryPricing: "Complaints about pricing, " +
					"subscription cost, paywalls, expensive plans, " +
					"billing problems, hidden fees, and price increases.",
				domain.CategoryAds: "Complaints about advertising, too " +
					"many ads, intrusive banners, unskippable video ads, " +
					"sponsored content, and ad tracking.",
				domain.CategoryContent: "Complaints about content " +
					"quality, low effort posts, spam, weak moderation, " +
					"misinformation, and repetitive or irrelevant content.",
				domain.CategoryPerformance: "Complaints about " +
					"performance, slow loading, crashes, freezes, lag, " +
					"battery drain, bugs, and general instability.",
				domain.CategoryFeatures: "Complaints about missing " +
					"features, limited functionality, requests for new " +
					"capabilities, poor usability, and workflow gaps.",
			},
		},
		Params: ScoringParams{
			HighWeight:     3,
			MediumWeight:   2,
			LowWeight:      1,
			SolutionWeight: 2,
			WTPWeight:      4,

			EngagementCap:       1.2,
			EngagementLogFactor: 0.05,

			MaxScore:              10,
			LowOnlyCap:            4.0,
			LowOnlyPenalty:        1.0,
			LowSolutionCap:        5.0,
			WTPHighBonus:          1.0,
			HighSolutionBonus:     0.5,
			NegativeContextFactor: 0.6,

			PraiseMinSimilarity: 0.45,
			PraiseMargin:        0.10,
			PraiseMaxRating:     3,
		},
	}
}
