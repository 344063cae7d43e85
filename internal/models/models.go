package models

type AuthorizationRequst struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type BookResponse struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"sale_price,omitempty"`
	InStock     bool    `json:"in_stock"`
	Featured    bool    `json:"featured,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type GetBooksResponse []BookResponse

type CategoryResponse struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type GetCategoriesResponse []CategoryResponse

type CategoryDetailResponse struct {
	CategoryResponse
	Books GetBooksResponse `json:"books"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type GetReviewsResponse []ReviewResponse

type AddCartItemRequest struct {
	BookSlug string `json:"book"`
	Quantity int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	Book      BookResponse `json:"book"`
	Quantity  int          `json:"quantity"`
	LineTotal float64      `json:"line_total"`
}

type GetCartResponse struct {
	Items         []CartLineResponse `json:"items"`
	Total         float64            `json:"total"`
	Discount      float64            `json:"discount"`
	PromoCode     string             `json:"promo_code,omitempty"`
	PromoDiscount float64            `json:"promo_discount,omitempty"`
	Final         float64            `json:"final"`
}

type ApplyPromoCodeRequest struct {
	Code string `json:"code"`
}

type OrderItemResponse struct {
	BookID    string  `json:"book_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type OrderHistoryResponse struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OrderResponse struct {
	Number        string  `json:"number"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Subtotal      float64 `json:"subtotal"`
	PromoDiscount float64 `json:"promo_discount,omitempty"`
	Shipping      float64 `json:"shipping"`
	Total         float64 `json:"total"`
	CreatedAt     string  `json:"created_at"`
}

type GetOrdersResponse []OrderResponse

type OrderDetailResponse struct {
	OrderResponse
	Items   []OrderItemResponse    `json:"items"`
	History []OrderHistoryResponse `json:"history"`
}

type PayOrderResponse struct {
	PaymentID  string `json:"payment_id"`
	ApproveURL string `json:"approve_url"`
}

type CapturePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type RefundRequest struct {
	Reason      string  `json:"reason"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type RefundResponse struct {
	OrderNumber string  `json:"order_number"`
	Reason      string  `json:"reason"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type GetRefundsResponse []RefundResponse
