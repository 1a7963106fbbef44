package pattern

import "ai-dialogue-be/pkg/store"

// DefaultTables returns the built-in English pattern dataset.
// Deployments can replace it wholesale via Load and PATTERN_TABLE_PATH.
func DefaultTables() Tables {
	return Tables{
		Version: "2026.02",

		// Tiered correction signals. Confidence expresses how strongly the
		// phrase alone signals the user is disputing the previous answer.
		CorrectionSignals: []Pattern{
			{Label: "strong_completely_wrong", Phrase: "completely wrong", Tier: store.IntensityStrong, Confidence: 0.95},
			{Label: "strong_totally_wrong", Phrase: "totally wrong", Tier: store.IntensityStrong, Confidence: 0.95},
			{Label: "strong_absolutely_wrong", Phrase: "absolutely wrong", Tier: store.IntensityStrong, Confidence: 0.95},
			{Label: "strong_not_true", Phrase: "that's not true", Tier: store.IntensityStrong, Confidence: 0.92},
			{Label: "strong_not_true_long", Phrase: "that is not true", Tier: store.IntensityStrong, Confidence: 0.92},
			{Label: "strong_definitely_incorrect", Phrase: "definitely incorrect", Tier: store.IntensityStrong, Confidence: 0.9},

			{Label: "correction_actually_its", Phrase: "actually, it's", Tier: store.IntensityCorrection, Confidence: 0.88},
			{Label: "correction_actually_it_is", Phrase: "actually it is", Tier: store.IntensityCorrection, Confidence: 0.88},
			{Label: "correction_correct_answer_is", Phrase: "the correct answer is", Tier: store.IntensityCorrection, Confidence: 0.9},
			{Label: "correction_should_be", Phrase: "it should be", Tier: store.IntensityCorrection, Confidence: 0.85},
			{Label: "correction_no_its", Phrase: "no, it's", Tier: store.IntensityCorrection, Confidence: 0.85},

			{Label: "medium_i_think_wrong", Phrase: "i think that's wrong", Tier: store.IntensityMedium, Confidence: 0.75},
			{Label: "medium_doesnt_seem_right", Phrase: "doesn't seem right", Tier: store.IntensityMedium, Confidence: 0.75},
			{Label: "medium_seems_incorrect", Phrase: "seems incorrect", Tier: store.IntensityMedium, Confidence: 0.72},
			{Label: "medium_looks_wrong", Phrase: "looks wrong", Tier: store.IntensityMedium, Confidence: 0.72},
			{Label: "medium_dont_think_right", Phrase: "i don't think that's right", Tier: store.IntensityMedium, Confidence: 0.75},

			{Label: "review_can_you_check", Phrase: "can you check", Tier: store.IntensityReview, Confidence: 0.7},
			{Label: "review_double_check", Phrase: "double-check", Tier: store.IntensityReview, Confidence: 0.7},
			{Label: "review_double_check_spaced", Phrase: "double check", Tier: store.IntensityReview, Confidence: 0.7},
			{Label: "review_check_again", Phrase: "check again", Tier: store.IntensityReview, Confidence: 0.68},
			{Label: "review_verify", Phrase: "verify that", Tier: store.IntensityReview, Confidence: 0.68},

			{Label: "doubt_i_doubt", Phrase: "i doubt", Tier: store.IntensityDoubt, Confidence: 0.65},
			{Label: "doubt_not_convinced", Phrase: "not convinced", Tier: store.IntensityDoubt, Confidence: 0.65},
			{Label: "doubt_hmm_really", Phrase: "hmm, really", Tier: store.IntensityDoubt, Confidence: 0.62},

			{Label: "weak_is_that_right", Phrase: "is that right", Tier: store.IntensityWeak, Confidence: 0.5},
			{Label: "weak_isnt_that_wrong", Phrase: "isn't that wrong", Tier: store.IntensityWeak, Confidence: 0.5},
			{Label: "weak_are_you_sure", Phrase: "are you sure", Tier: store.IntensityWeak, Confidence: 0.5},
			{Label: "weak_is_that_correct", Phrase: "is that correct", Tier: store.IntensityWeak, Confidence: 0.5},
			{Label: "weak_really", Phrase: "really?", Tier: store.IntensityWeak, Confidence: 0.45},
		},

		// Disjoint intent indicator sets; each match adds +1 to its set.
		IntentCorrection: []Pattern{
			{Label: "ind_thats_wrong", Phrase: "that's wrong"},
			{Label: "ind_that_is_wrong", Phrase: "that is wrong"},
			{Label: "ind_incorrect", Phrase: "incorrect"},
			{Label: "ind_not_true", Phrase: "not true"},
			{Label: "ind_mistaken", Phrase: "mistaken"},
			{Label: "ind_wrong_answer", Phrase: "wrong answer"},
			{Label: "ind_isnt_that_wrong", Phrase: "isn't that wrong"},
		},
		IntentClarification: []Pattern{
			{Label: "ind_what_do_you_mean", Phrase: "what do you mean"},
			{Label: "ind_can_you_explain", Phrase: "can you explain"},
			{Label: "ind_could_you_clarify", Phrase: "could you clarify"},
			{Label: "ind_dont_understand", Phrase: "i don't understand"},
			{Label: "ind_in_other_words", Phrase: "in other words"},
			{Label: "ind_elaborate", Phrase: "elaborate"},
			{Label: "ind_more_detail", Phrase: "in more detail"},
		},
		IntentFollowup: []Pattern{
			{Label: "ind_what_about", Phrase: "what about"},
			{Label: "ind_and_then", Phrase: "and then"},
			{Label: "ind_how_about", Phrase: "how about"},
			{Label: "ind_also", Phrase: "also"},
			{Label: "ind_additionally", Phrase: "additionally"},
			{Label: "ind_in_that_case", Phrase: "in that case"},
			{Label: "ind_related_to_that", Phrase: "related to that"},
		},
		IntentQuestion: []Pattern{
			{Label: "ind_question_mark", Phrase: "?"},
			{Label: "ind_what_is", Phrase: "what is"},
			{Label: "ind_what_are", Phrase: "what are"},
			{Label: "ind_how_do", Phrase: "how do"},
			{Label: "ind_how_does", Phrase: "how does"},
			{Label: "ind_how_many", Phrase: "how many"},
			{Label: "ind_why", Phrase: "why"},
			{Label: "ind_when", Phrase: "when"},
			{Label: "ind_where", Phrase: "where"},
			{Label: "ind_can_i", Phrase: "can i"},
			{Label: "ind_is_it", Phrase: "is it"},
			{Label: "ind_tell_me", Phrase: "tell me"},
		},

		// Phrases referring to earlier conversation content without
		// restating it.
		ImplicitReferences: []Pattern{
			{Label: "ref_that", Phrase: "that"},
			{Label: "ref_it", Phrase: "it"},
			{Label: "ref_this", Phrase: "this"},
			{Label: "ref_earlier", Phrase: "earlier"},
			{Label: "ref_before", Phrase: "before"},
			{Label: "ref_just_now", Phrase: "just now"},
			{Label: "ref_previous", Phrase: "previous"},
			{Label: "ref_previously", Phrase: "previously"},
			{Label: "ref_you_said", Phrase: "you said"},
			{Label: "ref_your_answer", Phrase: "your answer"},
			{Label: "ref_last_answer", Phrase: "last answer"},
		},

		// Low-confidence lexical markers inside produced answers.
		Hedging: []Pattern{
			{Label: "hedge_probably", Phrase: "probably"},
			{Label: "hedge_maybe", Phrase: "maybe"},
			{Label: "hedge_perhaps", Phrase: "perhaps"},
			{Label: "hedge_not_sure", Phrase: "not sure"},
			{Label: "hedge_i_believe", Phrase: "i believe"},
			{Label: "hedge_generally", Phrase: "generally"},
			{Label: "hedge_typically", Phrase: "typically"},
			{Label: "hedge_might_be", Phrase: "might be"},
			{Label: "hedge_it_seems", Phrase: "it seems"},
		},

		// Opposite-meaning keyword pairs for contradiction detection.
		// Kept literal on purpose; semantic negation is out of scope.
		Polarity: []PolarityPair{
			{Positive: "possible", Negative: "impossible"},
			{Positive: "correct", Negative: "incorrect"},
			{Positive: "true", Negative: "false"},
			{Positive: "can", Negative: "cannot"},
			{Positive: "allowed", Negative: "not allowed"},
			{Positive: "exists", Negative: "does not exist"},
			{Positive: "valid", Negative: "invalid"},
			{Positive: "always", Negative: "never"},
			{Positive: "legal", Negative: "illegal"},
		},

		Stopwords: []string{
			"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
			"do", "does", "did", "have", "has", "had", "will", "would", "can",
			"could", "should", "may", "might", "must", "shall", "i", "you",
			"he", "she", "we", "they", "it", "this", "that", "these", "those",
			"my", "your", "his", "her", "our", "their", "its", "me", "him",
			"them", "us", "what", "which", "who", "whom", "whose", "when",
			"where", "why", "how", "and", "or", "but", "not", "no", "nor",
			"so", "if", "then", "than", "too", "very", "just", "about",
			"into", "over", "after", "before", "again", "also", "of", "to",
			"in", "on", "at", "by", "for", "with", "from", "as", "up",
			"down", "out", "off", "please", "tell", "say", "said", "really",
			"there", "here", "all", "any", "some", "more", "most", "other",
			"such", "only", "own", "same", "both", "each", "many", "much",
			"few",
		},
	}
}

// Default compiles the built-in dataset. Panics only on a programming
// error in the embedded tables, never on user input.
func Default() *Table {
	table, err := Compile(DefaultTables())
	if err != nil {
		panic(err)
	}
	return table
}
