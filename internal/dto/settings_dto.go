package dto

type UpdateSettingsRequest struct {
	StoreName     *string `json:"store_name"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" validate:"omitempty,email"`
	ReceiptFooter *string `json:"receipt_footer"`
}

type SettingsResponse struct {
	StoreName     string  `json:"store_name"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ReceiptFooter *string `json:"receipt_footer"`
	UpdatedAt     string  `json:"updated_at"`
}
