package domain

// QuizQuestion is a single multiple-choice question. A valid question has a
// non-empty trimmed text, exactly 4 answers and a correct-answer index in
// [0,3].
type QuizQuestion struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuizQuestionCount and QuizAnswerCount fix the shape of a generated quiz.
const (
	QuizQuestionCount = 4
	QuizAnswerCount   = 4
)

// QuizSet is an ordered set of exactly QuizQuestionCount questions. The
// length invariant is enforced by rejection, never by padding: a fabricated
// question would mislead the learner about correctness.
type QuizSet []QuizQuestion

// LessonAnalysis is the normalized result of analyzing lesson content.
// KeyPoints always has exactly KeyPointCount entries and SuggestedQuestions
// exactly SuggestedQuestionCount; shortfalls are corrected with generic
// filler rather than rejected. Note is set whenever any correction occurred.
type LessonAnalysis struct {
	Summary            string   `json:"summary"`
	KeyPoints          []string `json:"keyPoints"`
	SuggestedQuestions []string `json:"suggestedQuestions"`
	Note               string   `json:"note,omitempty"`
}

const (
	KeyPointCount          = 5
	SuggestedQuestionCount = 3
)

// FileAnalysisResult describes a summarized upload. Summary is free text
// from the model and is not validated.
type FileAnalysisResult struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Summary  string `json:"summary"`
}
