package domain

// FAQ is one help-page question/answer pair, editable by admins.
type FAQ struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}
