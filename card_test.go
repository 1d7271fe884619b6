package judokit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectCardNetwork(t *testing.T) {
	tests := map[string]CardNetwork{
		"4976000000003436":    NetworkVisa,
		"5100 0000 0000 0000": NetworkMastercard,
		"2221000000000009":    NetworkMastercard,
		"340000000000009":     NetworkAmex,
		"6011000000000004":    NetworkDiscover,
		"3530111333300000":    NetworkJCB,
		"30569309025904":      NetworkDiners,
		"6759649826438453":    NetworkMaestro,
		"9999":                NetworkUnknown,
		"":                    NetworkUnknown,
	}
	for pan, want := range tests {
		require.Equal(t, want, DetectCardNetwork(pan), pan)
	}
}

func TestMaskPAN(t *testing.T) {
	require.Equal(t, "497600******3436", MaskPAN("4976 0000 0000 3436"))
	require.Equal(t, "****", MaskPAN("1234"))
	require.Equal(t, "****5678", MaskPAN("12345678"))
	require.Equal(t, "", MaskPAN(""))
}
