package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NoSummary is used in emails when no diagnostic was collected.
const NoSummary = "No diagnostic summary available."

// SummaryDocument is what a conversation summary row stores.
type SummaryDocument struct {
	Diagnostic   *Diagnostic `json:"diagnostic"`
	QuoteMessage string      `json:"quoteMessage,omitempty"`
}

func (s SummaryDocument) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSummary reads a stored summary. Older rows hold a bare diagnostic
// object instead of the wrapped document; both are accepted.
func DecodeSummary(raw []byte) (*SummaryDocument, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &SummaryDocument{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("invalid summary json: %w", err)
	}

	diagRaw, wrapped := fields["diagnostic"]
	_, hasQuote := fields["quoteMessage"]
	if !wrapped && !hasQuote {
		d, err := ParseDiagnostic(raw)
		if err != nil {
			return nil, err
		}
		return &SummaryDocument{Diagnostic: d}, nil
	}

	doc := &SummaryDocument{}
	if hasQuote {
		_ = json.Unmarshal(fields["quoteMessage"], &doc.QuoteMessage)
	}
	if len(diagRaw) > 0 && !bytes.Equal(bytes.TrimSpace(diagRaw), []byte("null")) {
		d, err := ParseDiagnostic(diagRaw)
		if err != nil {
			return nil, err
		}
		doc.Diagnostic = d
	}
	return doc, nil
}

// DiagnosticSummary renders the diagnostic as the short text block used in
// notification emails.
func DiagnosticSummary(d *Diagnostic) string {
	if d == nil {
		return NoSummary
	}

	var parts []string
	if d.DeviceBrand != nil {
		parts = append(parts, "Brand: "+*d.DeviceBrand)
	}
	if d.DeviceModel != nil {
		parts = append(parts, "Model: "+*d.DeviceModel)
	}
	if d.DeviceType != nil && *d.DeviceType != DeviceOther {
		parts = append(parts, "Device type: "+string(*d.DeviceType))
	}
	if d.ServiceType != nil && *d.ServiceType != ServiceOther {
		parts = append(parts, "Service type: "+string(*d.ServiceType))
	}
	if d.ProblemDescription != nil {
		parts = append(parts, "Issue: "+*d.ProblemDescription)
	}

	if len(parts) == 0 {
		return NoSummary
	}
	return strings.Join(parts, "\n")
}
