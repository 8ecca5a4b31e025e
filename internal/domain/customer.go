package domain

import "strings"

type Customer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// MatchesSearch reports whether the customer matches the admin search box:
// case-insensitive substring over display name and email.
func (c Customer) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.DisplayName), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

// NewCustomer is the input for the customer create screen.
type NewCustomer struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone,omitempty"`
	Note             string   `json:"note,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	AcceptsMarketing bool     `json:"accepts_marketing"`
}
