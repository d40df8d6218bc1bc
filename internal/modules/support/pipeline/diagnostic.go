// Package pipeline turns a chat transcript into a rendered quote. Every
// function here is pure: the completion service is injected and no stage
// touches the database.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type ServiceType string

const (
	ServicePrinterRepair   ServiceType = "printer_repair"
	ServiceITSupport       ServiceType = "it_support"
	ServiceApplianceRepair ServiceType = "appliance_repair"
	ServiceCleaning        ServiceType = "cleaning"
	ServiceMoving          ServiceType = "moving"
	ServiceOther           ServiceType = "other"
)

var serviceTypes = map[ServiceType]bool{
	ServicePrinterRepair:   true,
	ServiceITSupport:       true,
	ServiceApplianceRepair: true,
	ServiceCleaning:        true,
	ServiceMoving:          true,
	ServiceOther:           true,
}

type DeviceType string

const (
	DeviceLaserPrinter  DeviceType = "laser_printer"
	DeviceInkjetPrinter DeviceType = "inkjet_printer"
	DeviceComputer      DeviceType = "computer"
	DeviceLaptop        DeviceType = "laptop"
	DeviceAppliance     DeviceType = "appliance"
	DeviceOther         DeviceType = "other"
)

var deviceTypes = map[DeviceType]bool{
	DeviceLaserPrinter:  true,
	DeviceInkjetPrinter: true,
	DeviceComputer:      true,
	DeviceLaptop:        true,
	DeviceAppliance:     true,
	DeviceOther:         true,
}

// Diagnostic is the structured description of a customer's problem.
// Unknown information is nil and is serialized as null, never omitted.
type Diagnostic struct {
	ServiceType        *ServiceType           `json:"serviceType"`
	DeviceType         *DeviceType            `json:"deviceType"`
	DeviceBrand        *string                `json:"deviceBrand"`
	DeviceModel        *string                `json:"deviceModel"`
	ProblemDescription *string                `json:"problemDescription"`
	Location           *string                `json:"location"`
	Urgency            *string                `json:"urgency"`
	ExtraData          map[string]interface{} `json:"extraData"`
}

// DeviceTypeOrOther returns the device type, or "other" when unknown.
func (d *Diagnostic) DeviceTypeOrOther() DeviceType {
	if d == nil || d.DeviceType == nil {
		return DeviceOther
	}
	return *d.DeviceType
}

// ParseDiagnostic decodes a diagnostic JSON object leniently. Only a
// document that is not a JSON object is an error; individual fields that are
// missing or of the wrong type become nil.
func ParseDiagnostic(raw []byte) (*Diagnostic, error) {
	raw = bytes.TrimSpace(stripCodeFence(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("invalid diagnostic json: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("invalid diagnostic json: not an object")
	}

	d := &Diagnostic{
		DeviceBrand:        stringField(fields["deviceBrand"]),
		DeviceModel:        stringField(fields["deviceModel"]),
		ProblemDescription: stringField(fields["problemDescription"]),
		Location:           stringField(fields["location"]),
		Urgency:            stringField(fields["urgency"]),
	}

	if s := stringField(fields["serviceType"]); s != nil {
		st := ServiceType(strings.ToLower(*s))
		if !serviceTypes[st] {
			st = ServiceOther
		}
		d.ServiceType = &st
	}

	if s := stringField(fields["deviceType"]); s != nil {
		dt := DeviceType(strings.ToLower(*s))
		if !deviceTypes[dt] {
			dt = DeviceOther
		}
		d.DeviceType = &dt
	}

	if extra, ok := fields["extraData"]; ok {
		var m map[string]interface{}
		if err := json.Unmarshal(extra, &m); err == nil {
			d.ExtraData = m
		}
	}

	return d, nil
}

// stringField returns a trimmed string, or nil for absent, null, blank or
// non-string values.
func stringField(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite
// being told not to.
func stripCodeFence(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return raw
	}
	trimmed = trimmed[3:]
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	return bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
}
