package elevenlabs

// Voice describes one curated premium voice
type Voice struct {
	ID          string
	Name        string
	Description string
	Gender      string
	Accent      string
	UseCase     string
}

// DefaultVoiceID is the warm conversational voice used when none is chosen
const DefaultVoiceID = "EXAVITQu4vr4xnSDxMaL"

var voices = []Voice{
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Description: "Deep and authoritative", Gender: "male", Accent: "American", UseCase: "News, business"},
	{ID: DefaultVoiceID, Name: "Bella", Description: "Warm and conversational", Gender: "female", Accent: "American", UseCase: "Assistant, conversational"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold", Description: "Crisp and clear", Gender: "male", Accent: "American", UseCase: "Business"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Description: "Natural and casual", Gender: "male", Accent: "American", UseCase: "Daily updates"},
	{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli", Description: "Smooth and articulate", Gender: "female", Accent: "American", UseCase: "Informative"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Description: "Confident and clear", Gender: "female", Accent: "American", UseCase: "Announcements"},
}

// Voices returns a copy of the curated voice catalog
func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// VoiceByID looks up a catalog voice
func VoiceByID(id string) (Voice, bool) {
	for _, v := range voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// DefaultVoice returns the voice used when the caller does not choose one
func DefaultVoice() Voice {
	v, _ := VoiceByID(DefaultVoiceID)
	return v
}
