package book

type CreateBookRequest struct {
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author" binding:"required"`
	ISBN     string `json:"isbn" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Category string `json:"category"`
	Barcode  string `json:"barcode"`
}

type UpdateBookRequest struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	ISBN     *string `json:"isbn"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
	Category *string `json:"category"`
	Barcode  *string `json:"barcode"`
}
