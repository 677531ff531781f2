package subscription

import "errors"

var (
	ErrPlanNotFound             = errors.New("subscription plan not found")
	ErrInvalidPlanConfiguration = errors.New("invalid subscription plan configuration")
	ErrFailedToLoadPlans        = errors.New("failed to load subscription plans")

	ErrInvalidSubscriptionState = errors.New("invalid subscription state")
	ErrUnsupportedEvent         = errors.New("unsupported billing event")

	// Provider errors
	ErrMissingAPIKey              = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret       = errors.New("billing provider webhook secret is required")
	ErrInvalidProviderEnvironment = errors.New("invalid billing provider environment")
	ErrWebhookVerificationFailed  = errors.New("webhook signature verification failed")
	ErrNoCheckoutURL              = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL                = errors.New("no portal URL returned from provider")
	ErrMissingProviderCustomerRef = errors.New("provider customer reference not available")
	ErrMissingPriceID             = errors.New("price ID is required")
	ErrMissingCompanyID           = errors.New("company ID is required")
	ErrPlanNotBillable            = errors.New("plan has no provider price configured")
)
