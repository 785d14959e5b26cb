package dto

type CheckoutRequest struct {
	Plan     string `json:"plan" validate:"required,oneof=pro premium"`
	Interval string `json:"interval" validate:"omitempty,oneof=monthly annual"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}
