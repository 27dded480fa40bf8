package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateToken(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "deployed shape", in: "D250807"},
		{name: "lowercase prefix", in: "d250807", wantErr: true},
		{name: "missing prefix", in: "250807", wantErr: true},
		{name: "too short", in: "D2508", wantErr: true},
		{name: "too long", in: "D2508071", wantErr: true},
		{name: "letter among digits", in: "D25O807", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateToken(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestExpandDateToken(t *testing.T) {
	got, err := ExpandDateToken("D250807")
	require.NoError(t, err)
	assert.Equal(t, "20250807", got)
}

func TestExpandDateToken_CenturyIsFixed(t *testing.T) {
	got, err := ExpandDateToken("D991231")
	require.NoError(t, err)
	assert.Equal(t, "20991231", got)
}

func TestExpandDateToken_RejectsExpandedForm(t *testing.T) {
	_, err := ExpandDateToken("20250807")
	assert.ErrorIs(t, err, ErrInvalidDateToken)
}

func TestCompactDate_InvertsExpansion(t *testing.T) {
	date, err := ExpandDateToken("D250807")
	require.NoError(t, err)

	token, err := CompactDate(date)
	require.NoError(t, err)
	assert.Equal(t, "D250807", token)
}

func TestCompactDate_RejectsOtherCenturies(t *testing.T) {
	_, err := CompactDate("19991231")
	assert.ErrorIs(t, err, ErrInvalidDateToken)
}
