package qualification

import "regexp"

// treatmentKeywords maps each treatment type to the phrases that signal
// interest in it. Multi-word phrases score higher (one point per word).
// general_wellness has no keywords; it is the default when nothing matches.
var treatmentKeywords = map[TreatmentType][]string{
	TreatmentBloodTesting: {
		"blood test", "blood work", "lab results", "cholesterol", "diabetes",
		"thyroid", "vitamin deficiency", "hormone levels", "health check",
		"screening", "biomarkers", "lipid panel",
	},
	TreatmentPRP: {
		"hair loss", "baldness", "thinning hair", "prp", "platelet rich plasma",
		"hair restoration", "hair growth", "alopecia", "scalp treatment",
		"hair transplant alternative",
	},
	TreatmentWeightManagement: {
		"weight loss", "obesity", "overweight", "diet", "metabolism",
		"fat loss", "body composition", "bmi", "weight gain", "nutrition",
		"appetite", "metabolic syndrome", "bariatric",
	},
	TreatmentIVTherapy: {
		"iv therapy", "vitamin drip", "hydration", "energy boost",
		"immune support", "hangover", "fatigue", "vitamin infusion",
		"myers cocktail", "glutathione", "nad+",
	},
	TreatmentHormoneTherapy: {
		"hormone", "testosterone", "estrogen", "menopause", "andropause",
		"hrt", "hormone replacement", "low t", "hormonal imbalance",
		"bioidentical hormones", "thyroid hormone",
	},
}

// urgencyKeywords holds the four scoring tiers. Every keyword present in the
// text adds the tier's point value once.
var urgencyKeywords = []struct {
	level    UrgencyLevel
	keywords []string
}{
	{UrgencyUrgent, []string{
		"severe", "emergency", "urgent", "critical", "immediate",
		"chest pain", "difficulty breathing", "severe pain",
	}},
	{UrgencyHigh, []string{
		"worsening", "getting worse", "concerning", "worried",
		"significant", "major", "serious", "persistent pain",
	}},
	{UrgencyMedium, []string{
		"moderate", "noticeable", "bothering", "affecting daily",
		"ongoing", "recurring", "mild pain",
	}},
	{UrgencyLow, []string{
		"mild", "occasional", "preventive", "maintenance",
		"general wellness", "routine", "check-up",
	}},
}

// Fixed bonuses for phrasings that keyword tiers alone miss.
var (
	severePainPattern     = regexp.MustCompile(`\b(pain|hurt|ache)\b.*\b(severe|bad|terrible|unbearable)\b`)
	cannotFunctionPattern = regexp.MustCompile(`\b(can't|cannot)\b.*\b(sleep|work|function)\b`)
	worseningPattern      = regexp.MustCompile(`\b(getting worse|worsening|deteriorating)\b`)
	immediatePattern      = regexp.MustCompile(`\b(today|now|immediately|asap)\b`)
	nearTermPattern       = regexp.MustCompile(`\b(this week|soon|quickly)\b`)
)

// symptomPatterns is the fixed list of symptom phrase groups recognized by
// ExtractSymptoms.
var symptomPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(pain|ache|hurt|sore|tender)\b`),
	regexp.MustCompile(`\b(tired|fatigue|exhausted|weak)\b`),
	regexp.MustCompile(`\b(nausea|nauseous|sick)\b`),
	regexp.MustCompile(`\b(dizzy|dizziness|lightheaded)\b`),
	regexp.MustCompile(`\b(headache|migraine)\b`),
	regexp.MustCompile(`\b(insomnia|sleep problems|can't sleep)\b`),
	regexp.MustCompile(`\b(anxiety|anxious|stressed|stress)\b`),
	regexp.MustCompile(`\b(depression|depressed|sad)\b`),
	regexp.MustCompile(`\b(weight gain|weight loss)\b`),
	regexp.MustCompile(`\b(hair loss|balding|thinning hair)\b`),
}

// treatmentRecommendations lists the base follow-up actions per treatment
// type. An urgency prefix may be prepended by GenerateRecommendations.
var treatmentRecommendations = map[TreatmentType][]string{
	TreatmentBloodTesting: {
		"Schedule comprehensive blood panel",
		"Review current medications and supplements",
		"Prepare fasting instructions if needed",
	},
	TreatmentPRP: {
		"Schedule hair loss consultation",
		"Discuss PRP treatment options",
		"Review before/after photos",
	},
	TreatmentWeightManagement: {
		"Schedule metabolic assessment",
		"Discuss nutrition and lifestyle factors",
		"Consider body composition analysis",
	},
	TreatmentIVTherapy: {
		"Schedule IV therapy consultation",
		"Discuss vitamin deficiencies",
		"Review hydration needs",
	},
	TreatmentHormoneTherapy: {
		"Schedule hormone evaluation",
		"Order hormone panel blood work",
		"Discuss symptoms and treatment options",
	},
	TreatmentGeneralWellness: {
		"Schedule general wellness consultation",
		"Discuss health goals and concerns",
		"Consider preventive care options",
	},
}
