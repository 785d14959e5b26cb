package services

// ServiceContainer groups every service for dependency injection at startup.
type ServiceContainer struct {
	AuthService       AuthService
	UserService       UserService
	UsageService      UsageService
	GenerationService GenerationService
	SetService        SetService
	StudyService      StudyService
	AnalyticsService  AnalyticsService
	BillingService    BillingService
}
