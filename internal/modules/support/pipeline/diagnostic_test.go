package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fullDiagnostic() *Diagnostic {
	st := ServicePrinterRepair
	dt := DeviceLaserPrinter
	return &Diagnostic{
		ServiceType:        &st,
		DeviceType:         &dt,
		DeviceBrand:        strPtr("Brother"),
		DeviceModel:        strPtr("HL-L2350DW"),
		ProblemDescription: strPtr("Paper jams on every second page"),
		Location:           strPtr("Montreal"),
		Urgency:            strPtr("asap"),
		ExtraData: map[string]interface{}{
			"errorCode": "E-12",
			"pages":     float64(2),
		},
	}
}

func TestDiagnostic_RoundTrip(t *testing.T) {
	original := fullDiagnostic()

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := ParseDiagnostic(raw)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestDiagnostic_UnknownFieldsSerializeAsNull(t *testing.T) {
	raw, err := json.Marshal(&Diagnostic{})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"serviceType", "deviceType", "deviceBrand", "deviceModel", "problemDescription", "location", "urgency", "extraData"} {
		value, ok := fields[key]
		assert.True(t, ok, "missing key %s", key)
		assert.Nil(t, value, key)
	}
}

func TestParseDiagnostic_Lenient(t *testing.T) {
	d, err := ParseDiagnostic([]byte(`{
		"serviceType": "Teleportation",
		"deviceType": 42,
		"deviceBrand": "  ",
		"deviceModel": "X1",
		"location": null,
		"extraData": "not an object"
	}`))
	require.NoError(t, err)

	require.NotNil(t, d.ServiceType)
	assert.Equal(t, ServiceOther, *d.ServiceType)
	assert.Nil(t, d.DeviceType)
	assert.Nil(t, d.DeviceBrand)
	assert.Equal(t, "X1", *d.DeviceModel)
	assert.Nil(t, d.Location)
	assert.Nil(t, d.Urgency)
	assert.Nil(t, d.ExtraData)
	assert.Equal(t, DeviceOther, d.DeviceTypeOrOther())
}

func TestParseDiagnostic_EnumCaseInsensitive(t *testing.T) {
	d, err := ParseDiagnostic([]byte(`{"serviceType":"IT_SUPPORT","deviceType":"Laptop"}`))
	require.NoError(t, err)
	assert.Equal(t, ServiceITSupport, *d.ServiceType)
	assert.Equal(t, DeviceLaptop, *d.DeviceType)
}

func TestParseDiagnostic_CodeFence(t *testing.T) {
	d, err := ParseDiagnostic([]byte("```json\n{\"deviceBrand\":\"HP\"}\n```"))
	require.NoError(t, err)
	assert.Equal(t, "HP", *d.DeviceBrand)
}

func TestParseDiagnostic_Invalid(t *testing.T) {
	for _, raw := range []string{`{"deviceBrand": "HP",}`, `[1,2]`, `null`, ``} {
		d, err := ParseDiagnostic([]byte(raw))
		assert.Error(t, err, raw)
		assert.Nil(t, d, raw)
	}
}
