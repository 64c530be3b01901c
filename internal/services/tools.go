package services

import "github.com/yungbote/kanoon-backend/internal/extraction"

// Tool binds a model profile to the credentials and model it runs with.
type Tool struct {
	Profile extraction.Profile
	APIKey  string
	Model   string
}

func (t Tool) call(prompt string) extraction.Call {
	return t.Profile.Call(t.APIKey, t.Model, prompt)
}
