// Package api exposes the tenant quota and billing core over HTTP. All
// policy lives in the pkg packages; handlers only translate requests and
// map outcomes to status codes.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/subscription"
)

// RouterOptions wires the core services into the API router.
type RouterOptions struct {
	Gate          *quota.Gate
	Subscriptions *subscription.Service
}

// Router builds the API surface:
//
//	POST /operations/authorize      authorize a quota-consuming operation
//	POST /billing/webhook           apply a billing-provider webhook
//	POST /companies                 register a company on the trial plan
//	GET  /companies/{companyID}     read-only tenant snapshot
//	PUT  /companies/{companyID}/plan  explicit plan change
func Router(opts RouterOptions) chi.Router {
	h := &handlers{
		gate: opts.Gate,
		subs: opts.Subscriptions,
	}

	r := chi.NewRouter()
	r.Post("/operations/authorize", h.authorize)
	r.Post("/billing/webhook", h.billingWebhook)
	r.Route("/companies", func(cr chi.Router) {
		cr.Post("/", h.registerCompany)
		cr.Get("/{companyID}", h.companySnapshot)
		cr.Put("/{companyID}/plan", h.changePlan)
	})
	return r
}
