package pipeline

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const pricingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "scalar": {"type": ["string", "number", "null"]},
    "link": {"type": ["string", "null"]}
  },
  "properties": {
    "address": {"$ref": "#/definitions/scalar"},
    "hours": {"$ref": "#/definitions/scalar"},
    "contactNumber": {"$ref": "#/definitions/scalar"},
    "dropOffFee": {"$ref": "#/definitions/scalar"},
    "diagnosticFee": {"$ref": "#/definitions/scalar"},
    "hourlyRate": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/scalar"}
    },
    "travelFee": {
      "type": "object",
      "properties": {
        "montreal": {"$ref": "#/definitions/scalar"},
        "outside": {"$ref": "#/definitions/scalar"}
      }
    },
    "paymentLinks": {
      "type": "object",
      "properties": {
        "travelMontreal": {"$ref": "#/definitions/link"},
        "travelOutside": {"$ref": "#/definitions/link"}
      }
    },
    "serviceRules": {
      "type": "object",
      "additionalProperties": {
        "type": "string",
        "pattern": "^(dropoff|onsite|remote)(_or_(dropoff|onsite|remote))*$"
      }
    }
  }
}`

var pricingSchemaLoader = gojsonschema.NewStringLoader(pricingSchema)

// ValidatePricing checks a pricing document before it is stored.
func ValidatePricing(document []byte) error {
	result, err := gojsonschema.Validate(pricingSchemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("pricing validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("invalid pricing document: %s", strings.Join(errs, "; "))
	}

	return nil
}
