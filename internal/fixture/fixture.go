// Package fixture holds the built-in practice content used when a paper has
// no stored questions yet, and the starter catalog installed by the seed
// command. Questions get fresh IDs on every call so two concurrent sessions
// never share question identity.
package fixture

import (
	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/model"
)

type questionSpec struct {
	prompt      string
	options     []string
	correct     int
	explanation string
	audioURL    string
}

var questionBank = map[string][]questionSpec{
	"Listening": {
		{
			prompt:      "What time does the museum open on weekends?",
			options:     []string{"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM"},
			correct:     2,
			explanation: "The announcement states weekend opening hours begin at 10:00 AM.",
			audioURL:    "listening/museum-hours.mp3",
		},
		{
			prompt:      "Why is the speaker calling?",
			options:     []string{"To cancel a reservation", "To confirm an appointment", "To request a refund", "To change an address"},
			correct:     1,
			explanation: "The caller says they are phoning to confirm Thursday's appointment.",
			audioURL:    "listening/phone-call.mp3",
		},
		{
			prompt:      "Where will the meeting take place?",
			options:     []string{"Room 204", "The main lobby", "The west conference hall", "Room 310"},
			correct:     2,
			explanation: "The speaker moves the meeting to the west conference hall due to renovation.",
			audioURL:    "listening/meeting-location.mp3",
		},
		{
			prompt:      "What does the woman suggest the man do?",
			options:     []string{"Take an earlier train", "Buy a monthly pass", "Work from home", "Call the station"},
			correct:     1,
			explanation: "She points out a monthly pass would cost less for his commute.",
			audioURL:    "listening/commute-advice.mp3",
		},
		{
			prompt:      "How many people attended the conference?",
			options:     []string{"About 200", "About 350", "About 500", "About 700"},
			correct:     2,
			explanation: "The report mentions roughly five hundred attendees.",
			audioURL:    "listening/conference-report.mp3",
		},
	},
	"Reading": {
		{
			prompt:      "According to the passage, what was the primary cause of the decline?",
			options:     []string{"Rising costs", "New regulations", "Changing consumer habits", "Foreign competition"},
			correct:     2,
			explanation: "Paragraph two attributes the decline chiefly to shifting consumer habits.",
		},
		{
			prompt:      "The word \"negligible\" in paragraph 3 is closest in meaning to:",
			options:     []string{"significant", "insignificant", "negative", "careless"},
			correct:     1,
			explanation: "Negligible means small enough to be disregarded.",
		},
		{
			prompt:      "What can be inferred about the author's view of the policy?",
			options:     []string{"Strong support", "Cautious optimism", "Open hostility", "Complete indifference"},
			correct:     1,
			explanation: "The author concedes benefits while flagging risks, a cautiously optimistic stance.",
		},
		{
			prompt:      "Which of the following is NOT mentioned as a benefit?",
			options:     []string{"Lower emissions", "Job creation", "Reduced noise", "Cheaper maintenance"},
			correct:     2,
			explanation: "The passage lists emissions, jobs, and maintenance; noise is never mentioned.",
		},
		{
			prompt:      "What is the main purpose of the final paragraph?",
			options:     []string{"To summarize findings", "To propose further research", "To refute a counterargument", "To introduce a new topic"},
			correct:     1,
			explanation: "It closes by calling for longitudinal studies.",
		},
	},
	"Grammar": {
		{
			prompt:      "By the time the report was published, the data ___ outdated.",
			options:     []string{"became", "had become", "has become", "becomes"},
			correct:     1,
			explanation: "Past perfect marks an action completed before another past event.",
		},
		{
			prompt:      "Neither the manager nor the employees ___ aware of the change.",
			options:     []string{"was", "is", "were", "has been"},
			correct:     2,
			explanation: "With neither/nor, the verb agrees with the nearer subject (employees).",
		},
		{
			prompt:      "She recommended that he ___ the contract carefully.",
			options:     []string{"reads", "read", "reading", "to read"},
			correct:     1,
			explanation: "Recommend takes the subjunctive: the base form of the verb.",
		},
		{
			prompt:      "___ the heavy rain, the match went ahead as scheduled.",
			options:     []string{"Despite", "Although", "However", "Because of"},
			correct:     0,
			explanation: "Despite takes a noun phrase; although would need a clause.",
		},
	},
	"Vocabulary": {
		{
			prompt:      "The committee reached a ___ after three hours of debate.",
			options:     []string{"consensus", "census", "concession", "conscience"},
			correct:     0,
			explanation: "A consensus is a general agreement.",
		},
		{
			prompt:      "His explanation was so ___ that nobody asked a follow-up question.",
			options:     []string{"ambiguous", "lucid", "verbose", "tentative"},
			correct:     1,
			explanation: "Lucid means clearly expressed and easy to understand.",
		},
		{
			prompt:      "The company decided to ___ the outdated policy.",
			options:     []string{"abolish", "establish", "reinforce", "prolong"},
			correct:     0,
			explanation: "To abolish is to formally put an end to something.",
		},
		{
			prompt:      "Sales figures remained ___ throughout the quarter.",
			options:     []string{"stagnant", "staggering", "strenuous", "stringent"},
			correct:     0,
			explanation: "Stagnant describes something showing no movement or growth.",
		},
	},
}

// QuestionsFor returns the built-in question set for a paper's category, with
// freshly generated question IDs. Returns nil when the category has no
// built-in content.
func QuestionsFor(paper *model.Paper) []model.Question {
	specs, ok := questionBank[paper.Category]
	if !ok {
		return nil
	}
	questions := make([]model.Question, 0, len(specs))
	for i, spec := range specs {
		q := model.Question{
			ID:            uuid.New(),
			PaperID:       paper.ID,
			Prompt:        spec.prompt,
			Options:       append([]string(nil), spec.options...),
			CorrectOption: spec.correct,
			OrderNum:      i + 1,
		}
		if spec.explanation != "" {
			e := spec.explanation
			q.Explanation = &e
		}
		if spec.audioURL != "" {
			a := spec.audioURL
			q.AudioURL = &a
		}
		questions = append(questions, q)
	}
	return questions
}

// Categories lists the categories with built-in content.
func Categories() []string {
	return []string{"Listening", "Reading", "Grammar", "Vocabulary"}
}

// Papers returns the starter catalog used by the seed command.
func Papers() []model.Paper {
	return []model.Paper{
		{
			Title:           "Listening Practice: Everyday Conversations",
			Description:     "Short recorded conversations and announcements with one question each.",
			Category:        "Listening",
			Difficulty:      model.DifficultyBeginner,
			DurationMinutes: 15,
			IsPremium:       false,
		},
		{
			Title:           "Listening Practice: Lectures and Reports",
			Description:     "Longer academic recordings testing detail retention and inference.",
			Category:        "Listening",
			Difficulty:      model.DifficultyAdvanced,
			DurationMinutes: 25,
			IsPremium:       true,
		},
		{
			Title:           "Reading Comprehension: Short Passages",
			Description:     "Single-paragraph passages with main-idea and vocabulary questions.",
			Category:        "Reading",
			Difficulty:      model.DifficultyBeginner,
			DurationMinutes: 20,
			IsPremium:       false,
		},
		{
			Title:           "Reading Comprehension: Academic Texts",
			Description:     "Multi-paragraph academic texts with inference questions.",
			Category:        "Reading",
			Difficulty:      model.DifficultyIntermediate,
			DurationMinutes: 30,
			IsPremium:       true,
		},
		{
			Title:           "Grammar Essentials",
			Description:     "Tense, agreement, and subjunctive drills.",
			Category:        "Grammar",
			Difficulty:      model.DifficultyIntermediate,
			DurationMinutes: 15,
			IsPremium:       false,
		},
		{
			Title:           "Vocabulary Builder",
			Description:     "Context-based word choice across common exam topics.",
			Category:        "Vocabulary",
			Difficulty:      model.DifficultyBeginner,
			DurationMinutes: 10,
			IsPremium:       false,
		},
	}
}
