package dto

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
	Author    string `json:"author,omitempty"`
	CreatedAt string `json:"created_at"`
}
