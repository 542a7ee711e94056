// Package progress derives a guest's completion summary from four
// independent milestones.
package progress

// Flags holds the four milestone booleans, each sourced from a different
// subsystem.
type Flags struct {
	RSVPCompleted  bool `json:"rsvp_completed"`
	GiftSelected   bool `json:"gift_selected"`
	PhotosUploaded bool `json:"photos_uploaded"`
	MessagesSent   bool `json:"messages_sent"`
}

// Summary is the aggregate returned to the UI.
type Summary struct {
	CompletedCount       int `json:"completed_count"`
	TotalCount           int `json:"total_count"`
	CompletionPercentage int `json:"completion_percentage"`
}

const totalMilestones = 4

// Compute aggregates the flags. The percentage is always a multiple of 25
// because the milestones are strictly binary.
func Compute(f Flags) Summary {
	count := 0
	for _, done := range []bool{f.RSVPCompleted, f.GiftSelected, f.PhotosUploaded, f.MessagesSent} {
		if done {
			count++
		}
	}
	return Summary{
		CompletedCount:       count,
		TotalCount:           totalMilestones,
		CompletionPercentage: 100 * count / totalMilestones,
	}
}

// messages is keyed by exact percentage; Compute can only produce these five.
var messages = map[int]string{
	0:   "Comece sua jornada! Confirme sua presença para começar.",
	25:  "Bom começo! Continue participando da festa.",
	50:  "Metade do caminho! Que tal escolher um presente?",
	75:  "Quase lá! Falta só um passo para completar tudo.",
	100: "Você completou tudo! Nos vemos na festa! 🎉",
}

var messagesEN = map[int]string{
	0:   "Start your journey! Confirm your attendance to begin.",
	25:  "Good start! Keep joining in the celebration.",
	50:  "Halfway there! How about picking a gift?",
	75:  "Almost there! Just one step left to complete everything.",
	100: "You completed everything! See you at the party! 🎉",
}

// Message returns the fixed template for a summary's percentage.
func Message(s Summary) string {
	return MessageIn(s, "pt")
}

// MessageIn returns the template in the given language; anything other than
// "en" falls back to Portuguese.
func MessageIn(s Summary, lang string) string {
	if lang == "en" {
		return messagesEN[s.CompletionPercentage]
	}
	return messages[s.CompletionPercentage]
}
