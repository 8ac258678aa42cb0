package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		length    int64
		wantStart int64
		wantEnd   int64
		wantErr   error
	}{
		{"absent header means whole resource", "", 1000, 0, 999, nil},
		{"open ended", "bytes=0-", 1000, 0, 999, nil},
		{"mid start open ended", "bytes=200-", 1000, 200, 999, nil},
		{"bounded", "bytes=200-299", 1000, 200, 299, nil},
		{"end clamped to length", "bytes=900-5000", 1000, 900, 999, nil},
		{"single byte", "bytes=999-999", 1000, 999, 999, nil},
		{"missing unit", "0-", 1000, 0, 0, errMalformedRange},
		{"missing start", "bytes=-500", 1000, 0, 0, errMalformedRange},
		{"no dash", "bytes=200", 1000, 0, 0, errMalformedRange},
		{"non numeric", "bytes=abc-", 1000, 0, 0, errMalformedRange},
		{"start past end of resource", "bytes=1000-", 1000, 0, 0, errUnsatisfiableRange},
		{"inverted", "bytes=300-200", 1000, 0, 0, errUnsatisfiableRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := parseRange(tc.header, tc.length)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}
