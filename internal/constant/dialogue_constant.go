package constant

// Recovery strategies recommended when an error pattern recurs
const (
	StrategyGeneralVerification  = "general_verification"
	StrategyStandardCorrection   = "standard_correction"
	StrategyEnhancedVerification = "enhanced_verification"
	StrategyHighPriorityResearch = "high_priority_research"
)

// Contextual error types, in detection priority order
const (
	ErrorTypeUserReported     = "user_reported"
	ErrorTypeConsistencyError = "consistency_error"
	ErrorTypeLowConfidence    = "low_confidence"
)

// Per-turn analysis stages. CORRECTION_CONFIRMED is entered only when the
// intent recognizer flags a challenge; HISTORY_APPENDED is terminal.
const (
	StageReceived            = "RECEIVED"
	StageTopicAnalyzed       = "TOPIC_ANALYZED"
	StageIntentClassified    = "INTENT_CLASSIFIED"
	StageCorrectionConfirmed = "CORRECTION_CONFIRMED"
	StageConsistencyChecked  = "CONSISTENCY_CHECKED"
	StageHistoryAppended     = "HISTORY_APPENDED"
)

// LowConfidenceThreshold marks a recorded turn as a likely error for
// recovery reporting.
const LowConfidenceThreshold = 0.6
