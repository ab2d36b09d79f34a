package admin

import "havenly/models"

const (
	AudienceGuest = "guest"
	AudienceHost  = "host"
	AudienceAll   = "all"
)

// legalUpdated is the publication date of the current policy versions.
const legalUpdated = "2025-01-15T00:00:00Z"

// GetLegalSections returns all legal documents.
func (a *DefaultAdminService) GetLegalSections() []models.LegalSection {
	return []models.LegalSection{
		{
			ID:       "tos",
			Title:    "Terms of Service",
			Summary:  "These terms govern your use of the Havenly marketplace.",
			Content:  termsOfService,
			Audience: AudienceAll,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "privacy",
			Title:    "Privacy Policy",
			Summary:  "How Havenly collects and uses personal data.",
			Content:  privacyPolicy,
			Audience: AudienceAll,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "hosting",
			Title:    "Host Standards",
			Summary:  "What we expect from every listing and host.",
			Content:  hostStandards,
			Audience: AudienceHost,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "payments",
			Title:    "Payment & Cancellation Policy",
			Summary:  "How payments, refunds and cancellations work on Havenly.",
			Content:  paymentPolicy,
			Audience: AudienceGuest,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
	}
}

// GetLegalSectionsFor returns the documents relevant to a user role.
func (a *DefaultAdminService) GetLegalSectionsFor(role string) []models.LegalSection {
	audience := AudienceGuest
	switch role {
	case models.RoleHost:
		audience = AudienceHost
	case models.RoleAdmin, "":
		return a.GetLegalSections()
	}

	var filtered []models.LegalSection
	for _, section := range a.GetLegalSections() {
		if section.Audience == AudienceAll || section.Audience == audience {
			filtered = append(filtered, section)
		}
	}
	return filtered
}

const termsOfService = `By using Havenly you agree to these terms.

1. Eligibility: you must be 18 or older to book or host.
2. Platform: Havenly connects guests with independent hosts.
3. Listings: hosts are responsible for the accuracy of their listings.
4. Payments: card payments are processed by Stripe.
5. Disputes: report problems within 48 hours of check-out.`

const privacyPolicy = `We collect only what we need to run the marketplace.

1. Data we collect: name, email, phone, booking history, payment references.
2. How we use it: bookings, payouts, support and fraud prevention.
3. Third parties: Stripe (payments), SendGrid (email), OpenStreetMap Nominatim (address lookup).
4. Your rights: you may request deletion of your account at any time.`

const hostStandards = `Every host agrees to:

- Keep the calendar accurate and block dates that are not available.
- Respond to booking requests promptly.
- Describe the property, fees and amenities truthfully.
- Respect guest privacy and applicable local regulations.

Listings are reviewed before they go live and may be removed for violations.`

const paymentPolicy = `1. The total shown at booking includes the nightly rate, cleaning fee and service fee.
2. Bookings stay pending until the host confirms them.
3. Cancelling a paid booking refunds the full amount to the original card.
4. Completed stays can be reviewed once per booking.`
