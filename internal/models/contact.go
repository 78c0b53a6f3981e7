package models

type Contact struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type Reminder struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority,omitempty"`
	Type        string `json:"type,omitempty"`
	ContactID   ID     `json:"contactId,omitempty"`
	TaskID      ID     `json:"taskId,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}
