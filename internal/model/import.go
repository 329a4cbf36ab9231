package model

// QuizImport is the JSON shape of a seed file: one quiz with its subjects
// and questions. Subjects are referenced from questions by list index.
type QuizImport struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	TimeLimitMinutes int              `json:"time_limit_minutes"`
	PassingScore     int              `json:"passing_score"`
	Password         string           `json:"password"`
	AuthorPassword   string           `json:"author_password"`
	Active           *bool            `json:"is_active,omitempty"`
	Subjects         []SubjectImport  `json:"subjects"`
	Questions        []QuestionImport `json:"questions"`
}

// SubjectImport is a subject entry in a seed file.
type SubjectImport struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// QuestionImport is a question entry in a seed file. Subject refers to the
// zero-based index into the file's subject list.
type QuestionImport struct {
	Subject int            `json:"subject"`
	Text    string         `json:"text"`
	Type    QuestionType   `json:"type,omitempty"`
	Points  int            `json:"points,omitempty"`
	Options []OptionImport `json:"options"`
}

// OptionImport is one option of an imported question. Exactly one option
// per question must have correct set.
type OptionImport struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}
