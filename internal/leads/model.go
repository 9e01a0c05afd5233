package leads

type CreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Industry     string  `json:"industry"`
	Location     string  `json:"location"`
	Country      string  `json:"country"`
	Website      string  `json:"website"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email" validate:"omitempty,email"`
	LinkedIn     string  `json:"linkedin"`
	Status       string  `json:"status" validate:"omitempty,leadstatus"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	Reviews      int     `json:"reviews" validate:"gte=0"`
	ImageURL     string  `json:"imageUrl" validate:"omitempty,url"`
	FollowUpDate string  `json:"followUpDate" validate:"omitempty,date"`
	Notes        string  `json:"notes"`
}

// UpdateRequest is a partial edit; nil fields are left untouched.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Industry *string `json:"industry"`
	Location *string `json:"location"`
	Country  *string `json:"country"`
	Website  *string `json:"website"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	LinkedIn *string `json:"linkedin"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,leadstatus"`
}

type ReminderRequest struct {
	Date string `json:"date" validate:"required,date"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

type ImportRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter" validate:"delimiter"`
}

type ListFilter struct {
	Status        string
	ScheduledOnly bool
}

type ImportResult struct {
	Ready    int `json:"ready"`
	Imported int `json:"imported"`
}
