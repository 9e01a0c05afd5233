package notes

type CreateRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type ListFilter struct {
	Query string
}
