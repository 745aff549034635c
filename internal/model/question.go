package model

import (
	"github.com/google/uuid"
)

// Question represents a single multiple-choice question of a paper.
// Options always has at least two entries and CorrectOption is a valid
// 0-based index into it; both are enforced at write time.
type Question struct {
	ID            uuid.UUID `json:"id"`
	PaperID       uuid.UUID `json:"paper_id"`
	Prompt        string    `json:"prompt"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Explanation   *string   `json:"explanation,omitempty"`
	AudioURL      *string   `json:"audio_url,omitempty"`
	OrderNum      int       `json:"order_num"`
}

// QuestionForStudent is a question without the correct answer, sent to
// test takers.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Prompt   string    `json:"prompt"`
	Options  []string  `json:"options"`
	AudioURL *string   `json:"audio_url,omitempty"`
	OrderNum int       `json:"order_num"`
}

// ForStudent strips grading fields from a question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:       q.ID,
		Prompt:   q.Prompt,
		Options:  q.Options,
		AudioURL: q.AudioURL,
		OrderNum: q.OrderNum,
	}
}

// AddQuestionRequest is the payload for adding a question to a paper.
type AddQuestionRequest struct {
	Prompt        string   `json:"prompt" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,dive,required,max=500"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	Explanation   *string  `json:"explanation" binding:"omitempty,max=2000"`
	AudioURL      *string  `json:"audio_url" binding:"omitempty,max=500"`
	OrderNum      int      `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a paper's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}
