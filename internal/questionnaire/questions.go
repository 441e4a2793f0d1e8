package questionnaire

// Kind describes how a question is answered.
type Kind string

const (
	KindMultiple Kind = "multiple" // checkbox set
	KindSingle   Kind = "single"   // radio choice
	KindText     Kind = "text"     // free-form, optional
)

// Question ids, used as keys in the answer state and in submitted payloads.
const (
	IDInterests          = "interests"
	IDPreviousExperience = "previousExperience"
	IDSkillLevel         = "skillLevel"
	IDAppType            = "appType"
	IDPrimaryGoal        = "primaryGoal"
	IDBiggestChallenge   = "biggestChallenge"
	IDBetaTest           = "betaTest"
)

type Question struct {
	ID       string
	Title    string
	Subtitle string
	Kind     Kind
	Options  []string
}

// Questions is the fixed questionnaire shown after signup, in order.
var Questions = []Question{
	{
		ID:       IDInterests,
		Title:    "🧭 What interests you most about App Spark?",
		Subtitle: "Select all that apply",
		Kind:     KindMultiple,
		Options: []string{
			"Learning how to build a real app from scratch",
			"Using AI (like ChatGPT and Copilot) to help me code",
			"Understanding just enough code to be dangerous",
			"Avoiding $30k–50k+ in development costs",
			"Building an MVP to test or launch my startup",
			"Gaining tech confidence as a non-technical founder",
			"Everything — I want to go all in",
		},
	},
	{
		ID:    IDPreviousExperience,
		Title: "🛠️ Have you tried building an app before?",
		Kind:  KindSingle,
		Options: []string{
			"Yes - I paid a developer or agency",
			"Yes - I tried a no-code tool like Bubble or Glide",
			"I attempted to code but didn't get far",
			"No - this is my first attempt",
		},
	},
	{
		ID:    IDSkillLevel,
		Title: "🔤 What's your current technical skill level?",
		Kind:  KindSingle,
		Options: []string{
			"Total beginner — I've never coded",
			"I've tried some tutorials or used tools like Notion and Zapier",
			"I know the basics but can't build alone",
			"I'm comfortable editing code but not building from scratch",
		},
	},
	{
		ID:       IDAppType,
		Title:    "💡 What type of app are you hoping to build?",
		Subtitle: "Optional - tell us about your idea",
		Kind:     KindText,
	},
	{
		ID:    IDPrimaryGoal,
		Title: "🎯 What's your primary goal right now?",
		Kind:  KindSingle,
		Options: []string{
			"Launch a side project or startup",
			"Learn to build apps so I can work faster",
			"Build a tool to solve a personal or business problem",
			"Prove out a startup idea",
			"Change careers or level up professionally",
		},
	},
	{
		ID:       IDBiggestChallenge,
		Title:    "🔥 What's the biggest thing holding you back?",
		Subtitle: "e.g., 'I don't know where to start' or 'I don't understand how to connect everything'",
		Kind:     KindText,
	},
	{
		ID:    IDBetaTest,
		Title: "🧪 Want to beta test or chat with us?",
		Kind:  KindSingle,
		Options: []string{
			"Yes - I'd be open to a quick call or early test",
			"Not right now",
		},
	},
}

// Responses is the completed questionnaire payload handed to the sync client.
type Responses struct {
	Interests          []string `json:"interests"`
	PreviousExperience string   `json:"previousExperience"`
	SkillLevel         string   `json:"skillLevel"`
	AppType            string   `json:"appType"`
	PrimaryGoal        string   `json:"primaryGoal"`
	BiggestChallenge   string   `json:"biggestChallenge"`
	BetaTest           string   `json:"betaTest"`
}
