package followups

// Kind buckets the content library by purpose.
type Kind string

const (
	KindTreatmentInfo Kind = "treatment_info"
	KindPostCare      Kind = "post_care"
	KindWellnessTip   Kind = "wellness_tip"
	KindReminder      Kind = "appointment_reminder"
)

// ContentItem is one entry of the fixed wellness content library.
type ContentItem struct {
	ID       string
	Title    string
	Body     string
	Kind     Kind
	Category string // treatment category the item targets
}

// contentLibrary is the immutable keyed lookup producing message text from a
// category. Items are addressed by id; selection falls back to the general
// wellness tip when a category has nothing better.
var contentLibrary = map[string]ContentItem{
	"blood_test_prep": {
		ID:       "blood_test_prep",
		Title:    "Blood Test Preparation Guide",
		Kind:     KindTreatmentInfo,
		Category: "blood_testing",
		Body: `*Preparing for Your Blood Test*

- Fast for 8-12 hours before your appointment
- Stay hydrated with water only
- Avoid alcohol 24 hours prior
- Take medications as prescribed unless advised otherwise
- Wear comfortable clothing with loose sleeves

Questions? Reply to this message!`,
	},
	"prp_aftercare": {
		ID:       "prp_aftercare",
		Title:    "PRP Treatment Aftercare",
		Kind:     KindPostCare,
		Category: "prp",
		Body: `*Your PRP Treatment Aftercare Plan*

First 24 hours:
- Avoid touching or washing the treated area
- No makeup or skincare products
- Stay hydrated and rest well

Next 48 hours:
- Gentle cleansing with mild soap
- Apply recommended moisturizer
- Avoid direct sunlight

You may experience mild redness - this is normal!`,
	},
	"weight_management_tips": {
		ID:       "weight_management_tips",
		Title:    "Weekly Weight Management Tips",
		Kind:     KindWellnessTip,
		Category: "weight_management",
		Body: `*This Week's Wellness Focus*

Hydration goal: 8 glasses of water daily
Nutrition tip: fill half your plate with vegetables
Movement goal: 10,000 steps or 30 minutes of activity
Sleep target: 7-9 hours of quality sleep

Small changes lead to big results! How are you feeling this week?`,
	},
	"general_wellness": {
		ID:       "general_wellness",
		Title:    "Daily Wellness Reminder",
		Kind:     KindWellnessTip,
		Category: "general_wellness",
		Body: `*Your Daily Wellness Moment*

Wellness is a journey, not a destination.

Today's focus:
- Take 5 deep breaths
- Drink a glass of water
- Move your body for 10 minutes
- Practice gratitude

You're investing in the best version of yourself!`,
	},
}

// ContentByID looks up a library item.
func ContentByID(id string) (ContentItem, bool) {
	item, ok := contentLibrary[id]
	return item, ok
}

// ContentForCategory picks the library item for a treatment category,
// preferring the requested kind and falling back to the general wellness tip.
func ContentForCategory(category string, kind Kind) ContentItem {
	var fallback ContentItem
	for _, item := range contentLibrary {
		if item.Category == category && item.Kind == kind {
			return item
		}
		if item.Category == category {
			fallback = item
		}
	}
	if fallback.ID != "" {
		return fallback
	}
	return contentLibrary["general_wellness"]
}
