package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LocalRegionKeyword marks an address as inside the local travel zone.
const LocalRegionKeyword = "montreal"

// DefaultServiceRule applies to device types without an explicit rule.
const DefaultServiceRule = "onsite_or_dropoff"

// Value is a pricing scalar that companies may enter either as a number or
// as text ("50", 50, "$50 + tax"). Numbers keep their shortest decimal form.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(strings.TrimSpace(s))
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			// booleans, objects and arrays carry no usable amount
			*v = ""
			return nil
		}
		*v = Value(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	if f, ok := v.Float(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(v))
}

func (v Value) String() string {
	return string(v)
}

// Float returns the numeric value when the text is a plain number.
func (v Value) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(v), 64)
	return f, err == nil
}

type TravelFees struct {
	Montreal Value `json:"montreal"`
	Outside  Value `json:"outside"`
}

type PaymentLinks struct {
	TravelMontreal string `json:"travelMontreal"`
	TravelOutside  string `json:"travelOutside"`
}

// PricingConfig is a company's pricing document.
type PricingConfig struct {
	Address       Value             `json:"address"`
	Hours         Value             `json:"hours"`
	ContactNumber Value             `json:"contactNumber"`
	DropOffFee    Value             `json:"dropOffFee"`
	DiagnosticFee Value             `json:"diagnosticFee"`
	HourlyRate    map[string]Value  `json:"hourlyRate"`
	TravelFee     TravelFees        `json:"travelFee"`
	PaymentLinks  PaymentLinks      `json:"paymentLinks"`
	ServiceRules  map[string]string `json:"serviceRules"`
}

// ParsePricing decodes a stored pricing document. The document may also be
// a JSON string holding the document as text. On failure the returned config
// is empty and the error is informational only.
func ParsePricing(raw []byte) (PricingConfig, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return PricingConfig{}, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return PricingConfig{}, fmt.Errorf("invalid pricing text: %w", err)
		}
		raw = bytes.TrimSpace([]byte(text))
		if len(raw) == 0 {
			return PricingConfig{}, nil
		}
	}

	var cfg PricingConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return PricingConfig{}, fmt.Errorf("invalid pricing document: %w", err)
	}
	return cfg, nil
}

// ServiceModes says how a device can be serviced.
type ServiceModes struct {
	DropOff bool
	Onsite  bool
	Remote  bool
}

// ParseServiceRule reads a rule made of modes joined by "_or_", for example
// "onsite_or_dropoff" or "remote". A rule with no known mode falls back to
// the default rule.
func ParseServiceRule(rule string) ServiceModes {
	var modes ServiceModes
	known := false
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(rule)), "_or_") {
		switch strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(part), "_", ""), "-", "") {
		case "dropoff":
			modes.DropOff, known = true, true
		case "onsite":
			modes.Onsite, known = true, true
		case "remote":
			modes.Remote, known = true, true
		}
	}
	if !known {
		return ParseServiceRule(DefaultServiceRule)
	}
	return modes
}

// QuoteRequest is the customer data submitted with a quote request.
type QuoteRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// IsLocal reports whether the address lies in the local travel zone.
func (q QuoteRequest) IsLocal() bool {
	return strings.Contains(strings.ToLower(q.Address), LocalRegionKeyword)
}

// ResolvedPricing is everything the quote template can reference.
type ResolvedPricing struct {
	Local            bool
	TravelFee        Value
	TravelLink       string
	HourlyRate       Value
	ServiceRule      string
	DropOffAvailable bool
	OnsiteAvailable  bool
	RemoteAvailable  bool
}

// ResolvePricing derives travel fee, payment link, hourly rate and service
// availability for one customer and diagnostic. d may be nil.
func ResolvePricing(cfg PricingConfig, d *Diagnostic, req QuoteRequest) ResolvedPricing {
	out := ResolvedPricing{Local: req.IsLocal()}

	if out.Local {
		out.TravelFee = cfg.TravelFee.Montreal
		out.TravelLink = cfg.PaymentLinks.TravelMontreal
	} else {
		out.TravelFee = cfg.TravelFee.Outside
		out.TravelLink = cfg.PaymentLinks.TravelOutside
	}

	deviceType := string(d.DeviceTypeOrOther())

	out.HourlyRate = cfg.HourlyRate[deviceType]
	if out.HourlyRate == "" {
		out.HourlyRate = cfg.HourlyRate["regularPrinter"]
	}

	out.ServiceRule = strings.TrimSpace(cfg.ServiceRules[deviceType])
	if out.ServiceRule == "" {
		out.ServiceRule = DefaultServiceRule
	}
	modes := ParseServiceRule(out.ServiceRule)
	out.DropOffAvailable = modes.DropOff
	out.OnsiteAvailable = modes.Onsite
	out.RemoteAvailable = modes.Remote

	return out
}
