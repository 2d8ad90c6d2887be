package documents

// Template is an organization-authored, token-bearing document body edited
// through the rich-text surface. Custom templates carry no required-field
// contract; authors own the meaning of their placeholders.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Status      string `json:"status"` // active, archived
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}
