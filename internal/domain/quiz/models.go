package quiz

import "errors"

var ErrInvalidAnswers = errors.New("one answer per question is required")

// PainLevel classifies how much friction a user reported in the
// onboarding quiz.
type PainLevel string

const (
	PainLow      PainLevel = "low"
	PainMedium   PainLevel = "medium"
	PainHigh     PainLevel = "high"
	PainCritical PainLevel = "critical"
)

// Question is a single onboarding quiz question. PainIndex marks the
// option that signals the user struggles with this area.
type Question struct {
	ID        int      `json:"id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	PainIndex int      `json:"-"`
	PainPoint string   `json:"painPoint"`
	Solution  string   `json:"solution"`
}

// Result is the outcome of evaluating a full set of answers.
type Result struct {
	PainLevel      PainLevel `json:"painLevel"`
	PainfulAnswers int       `json:"painfulAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
}

var questions = []Question{
	{
		ID:       1,
		Question: "How do you feel about your finances right now?",
		Options: []string{
			"Completely lost, I don't know where to start",
			"I have some control, but it could be better",
			"I'm satisfied, but I want to improve",
			"I'm fully in control of my finances",
		},
		PainIndex: 0,
		PainPoint: "Many people feel lost with their finances",
		Solution:  "We organize everything automatically for you!",
	},
	{
		ID:       2,
		Question: "How often do you forget to pay important bills?",
		Options: []string{
			"Often, and it causes me problems",
			"I sometimes forget a few bills",
			"I rarely forget",
			"I never forget",
		},
		PainIndex: 0,
		PainPoint: "Forgotten bills lead to avoidable fees and interest",
		Solution:  "Get automatic alerts and never pay a late fee again!",
	},
	{
		ID:       3,
		Question: "Do you know exactly how much you spent last month?",
		Options: []string{
			"No idea",
			"I have a rough sense",
			"I know more or less",
			"I know exactly",
		},
		PainIndex: 0,
		PainPoint: "Without knowing your spending it's impossible to save",
		Solution:  "See all your spending in clear, intuitive charts!",
	},
	{
		ID:       4,
		Question: "Do you have defined financial goals?",
		Options: []string{
			"I don't have any goals",
			"I have goals but don't track them",
			"I have goals and try to track them",
			"I have clear goals and track them regularly",
		},
		PainIndex: 0,
		PainPoint: "Without clear goals it's hard to reach your dreams",
		Solution:  "Set goals and watch your progress in real time!",
	},
	{
		ID:       5,
		Question: "How much time do you spend per week organizing your finances?",
		Options: []string{
			"I don't organize my finances",
			"More than 3 hours",
			"Between 1 and 3 hours",
			"Less than 1 hour",
		},
		PainIndex: 0,
		PainPoint: "Organizing finances by hand eats precious time",
		Solution:  "Automate everything and get your hours back!",
	},
}

// Questions returns the onboarding question set.
func Questions() []Question {
	return questions
}

// Evaluate scores a full set of answers (one option index per question,
// in question order) into a pain level.
func Evaluate(answers []int) (*Result, error) {
	if len(answers) != len(questions) {
		return nil, ErrInvalidAnswers
	}

	painful := 0
	for i, answer := range answers {
		if answer < 0 || answer >= len(questions[i].Options) {
			return nil, ErrInvalidAnswers
		}
		if answer == questions[i].PainIndex {
			painful++
		}
	}

	var level PainLevel
	switch {
	case painful >= 4:
		level = PainCritical
	case painful >= 3:
		level = PainHigh
	case painful >= 2:
		level = PainMedium
	default:
		level = PainLow
	}

	return &Result{
		PainLevel:      level,
		PainfulAnswers: painful,
		TotalQuestions: len(questions),
	}, nil
}
