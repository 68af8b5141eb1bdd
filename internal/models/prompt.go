package models

import "time"

// PromptTemplate is a stored AI prompt template. Content may contain
// {{...}}, ((...)), [[...]] tokens, periods macros, and holdings sections
// expanded by the prompt engine.
type PromptTemplate struct {
	ID        string    `json:"id" badgerhold:"key"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"` // security | portfolio | chat
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetField implements FieldAccessor.
func (t *PromptTemplate) GetField(name string) any {
	if t == nil {
		return nil
	}
	switch name {
	case "id":
		return t.ID
	case "name":
		return t.Name
	case "category":
		return t.Category
	case "content":
		return t.Content
	default:
		return nil
	}
}
