package calendar

// CreateCalendarRequest represents the request to create a new calendar
type CreateCalendarRequest struct {
	Name        string                  `json:"name" validate:"required,min=1,max=100"`
	Description string                  `json:"description,omitempty"`
	Color       string                  `json:"color,omitempty"`
	Kind        Kind                    `json:"kind,omitempty"`
	Visibility  Visibility              `json:"visibility,omitempty"`
	Members     []string                `json:"members,omitempty"`
	Permissions map[string][]Permission `json:"permissions,omitempty"`
	Settings    *Settings               `json:"settings,omitempty"`
}

// UpdateCalendarRequest represents the request to update a calendar
type UpdateCalendarRequest struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Color       *string                  `json:"color,omitempty"`
	Kind        *Kind                    `json:"kind,omitempty"`
	Visibility  *Visibility              `json:"visibility,omitempty"`
	Members     *[]string                `json:"members,omitempty"`
	Permissions *map[string][]Permission `json:"permissions,omitempty"`
	Settings    *Settings                `json:"settings,omitempty"`
}
