package stepseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	s := NewSession()
	s.AddSample(Sample{Name: "kick", FilePath: "kick.wav", SpectralPosition: Low})
	s.AddSample(Sample{Name: "hat", FilePath: "hat.wav", SpectralPosition: High})
	s.AddEvent(NewEvent("kick", 0))
	s.AddEvent(NewEvent("hat", 2))
	s.ChangeTempo(128)

	data, err := EncodeDocument(s)
	require.NoError(t, err)

	decoded, err := DecodeDocument(data)
	require.NoError(t, err)

	assertSessionsEqual(t, s, decoded)
}

func TestDocumentPreservesDenumeratorSpelling(t *testing.T) {
	s := NewSession()
	data, err := EncodeDocument(s)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"denumerator"`)
	assert.NotContains(t, string(data), `"denominator"`)
}

func TestDecodeDocumentRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeDocument([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestDecodeDocumentRejectsEventWithUnknownSample(t *testing.T) {
	bad := `{"samples":[],"events":[{"sample":{"name":"ghost"},"time_stamp":0,"duration":0.25,"midi_note":60,"velocity":127}],"time_signature":{"numerator":4,"denumerator":4,"ticks_per_quarter_note":4},"tempo":120}`
	_, err := DecodeDocument([]byte(bad))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestDecodeDocumentRejectsInvalidTimeSignature(t *testing.T) {
	bad := `{"samples":[],"events":[],"time_signature":{"numerator":0,"denumerator":4,"ticks_per_quarter_note":4},"tempo":120}`
	_, err := DecodeDocument([]byte(bad))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
