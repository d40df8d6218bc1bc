package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aymerick/raymond"
)

// DefaultAcknowledgement is returned for companies without a quote template.
const DefaultAcknowledgement = "Thank you for your request. A technician will contact you soon."

var (
	headingMarker  = regexp.MustCompile(`(#+\s)`)
	whitespaceRun  = regexp.MustCompile(`\s{2,}`)
	horizontalRule = regexp.MustCompile(`---`)
)

// TemplateValues binds the names a quote template may reference.
func TemplateValues(cfg PricingConfig, resolved ResolvedPricing, d *Diagnostic, req QuoteRequest) map[string]interface{} {
	values := map[string]interface{}{
		"address":          safe(cfg.Address.String()),
		"hours":            safe(cfg.Hours.String()),
		"contactNumber":    safe(cfg.ContactNumber.String()),
		"dropOffFee":       safe(cfg.DropOffFee.String()),
		"diagnosticFee":    safe(cfg.DiagnosticFee.String()),
		"travelFee":        safe(resolved.TravelFee.String()),
		"travelLink":       safe(resolved.TravelLink),
		"hourlyRate":       safe(resolved.HourlyRate.String()),
		"dropOffAvailable": resolved.DropOffAvailable,
		"onsiteAvailable":  resolved.OnsiteAvailable,
		"remoteAvailable":  resolved.RemoteAvailable,
		"customerName":     safe(req.Name),
	}

	if d != nil {
		values["deviceBrand"] = safe(deref(d.DeviceBrand))
		values["deviceModel"] = safe(deref(d.DeviceModel))
		values["problemDescription"] = safe(deref(d.ProblemDescription))
		if d.DeviceType != nil {
			values["deviceType"] = safe(string(*d.DeviceType))
		}
		if d.ServiceType != nil {
			values["serviceType"] = safe(string(*d.ServiceType))
		}
	}

	return values
}

// ValidateTemplate reports whether a quote template parses.
func ValidateTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return nil
	}
	if _, err := raymond.Parse(template); err != nil {
		return fmt.Errorf("invalid quote template: %w", err)
	}
	return nil
}

// RenderQuote fills the template and normalizes the result. A blank
// template yields the default acknowledgement. If the template cannot be
// rendered the acknowledgement is returned together with the error, which
// callers only log.
func RenderQuote(template string, values map[string]interface{}) (string, error) {
	if strings.TrimSpace(template) == "" {
		return DefaultAcknowledgement, nil
	}

	tpl, err := raymond.Parse(template)
	if err != nil {
		return DefaultAcknowledgement, fmt.Errorf("parse quote template: %w", err)
	}

	out, err := tpl.Exec(values)
	if err != nil {
		return DefaultAcknowledgement, fmt.Errorf("render quote template: %w", err)
	}

	return Normalize(out), nil
}

// Normalize puts blank lines around markdown headings and horizontal rules
// and turns runs of whitespace into markdown line breaks.
func Normalize(s string) string {
	s = headingMarker.ReplaceAllString(s, "\n\n$1")
	s = whitespaceRun.ReplaceAllString(s, "  \n")
	s = horizontalRule.ReplaceAllString(s, "\n\n---\n\n")
	return strings.TrimSpace(s)
}

// safe marks a value as already escaped; quotes are plain text or markdown,
// not HTML.
func safe(s string) raymond.SafeString {
	return raymond.SafeString(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
