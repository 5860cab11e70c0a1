package ota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseSuccess(t *testing.T) {
	out, err := ParseResponse([]byte(`<OTA_HotelResNotifRS EchoToken="T-1"><Success/></OTA_HotelResNotifRS>`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "T-1", out.EchoToken)
	assert.True(t, out.OK(false))
}

func TestParseResponseErrors(t *testing.T) {
	doc := `<OTA_HotelResNotifRS>
		<Errors>
			<Error Type="3" Code="392" ShortText="invalid hotel">Hotel code not recognized</Error>
			<Error Type="3">Rate plan closed</Error>
		</Errors>
	</OTA_HotelResNotifRS>`

	out, err := ParseResponse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, OutcomeError, out.Kind)
	assert.False(t, out.OK(true))
	assert.Equal(t, "392: Hotel code not recognized; Rate plan closed", out.ErrorText())
}

func TestParseResponseAmbiguous(t *testing.T) {
	out, err := ParseResponse([]byte(`<OTA_HotelResNotifRS EchoToken="T-2"></OTA_HotelResNotifRS>`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAmbiguous, out.Kind)

	// The named heuristic is the only thing that turns ambiguous into OK.
	assert.False(t, out.OK(false))
	assert.True(t, out.OK(true))
}

func TestParseResponseMalformed(t *testing.T) {
	_, err := ParseResponse([]byte("<unclosed"))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
