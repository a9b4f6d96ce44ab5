package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Template is the tenant-configured instructional content and validity policy
// for a digital product. AutoGenerated controls whether activation codes may
// be produced by the system; when false a human supplies them out-of-band and
// auto-fulfillment never fires for the product.
type Template struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	Name          string
	Body          string
	AutoGenerated bool
	ValidityDays  int
}

// TemplateVars holds the values interpolated into a rendered template body
type TemplateVars struct {
	Code           string
	ProcessingTime string
	ContactEmail   string
	ActivateTill   string
}

// Render substitutes the template variables into the body text
func (t *Template) Render(vars TemplateVars) string {
	replacer := strings.NewReplacer(
		"{code}", vars.Code,
		"{processing_time}", vars.ProcessingTime,
		"{contact_email}", vars.ContactEmail,
		"{activate_till}", vars.ActivateTill,
	)
	return replacer.Replace(t.Body)
}

// ExpiryDate computes the activation deadline from the given moment
func (t *Template) ExpiryDate(from time.Time) time.Time {
	days := t.ValidityDays
	if days <= 0 {
		days = 1
	}
	return from.AddDate(0, 0, days)
}
