package handlers

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	GenerationHandler *GenerationHandler
	SetHandler        *SetHandler
	StudyHandler      *StudyHandler
	AnalyticsHandler  *AnalyticsHandler
	BillingHandler    *BillingHandler
}
