package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValues(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		actual    string
		want      bool
	}{
		{"exact", "Hardware", "Hardware", true},
		{"case insensitive", "hardware", "HARDWARE", true},
		{"whitespace trimmed", "  Network  ", "Network", true},
		{"predicted contains actual", "Network Connectivity", "Network", true},
		{"actual contains predicted", "Network", "Network Connectivity", true},
		{"disjoint", "Hardware", "Software", false},
		{"both empty", "", "", true},
		{"predicted empty", "", "Hardware", false},
		{"actual empty", "Hardware", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Values(tt.predicted, tt.actual))
		})
	}
}

func TestResolution(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		actual    string
		want      bool
	}{
		{
			name:      "exact",
			predicted: "Restart the print spooler service",
			actual:    "Restart the print spooler service",
			want:      true,
		},
		{
			name:      "containment",
			predicted: "Restart the print spooler service and verify the queue",
			actual:    "restart the print spooler service",
			want:      true,
		},
		{
			name:      "synonym action with shared keywords",
			predicted: "Restart the printer service",
			actual:    "Reboot printer service",
			want:      true,
		},
		{
			name:      "high keyword overlap",
			predicted: "Clear the browser cache and cookies then reload the portal page",
			actual:    "Clear browser cache and cookies, reload the portal page",
			want:      true,
		},
		{
			name:      "unrelated remediations",
			predicted: "Update firewall rules",
			actual:    "Investigate network latency",
			want:      false,
		},
		{
			name:      "shared action but too few keywords",
			predicted: "Restart the router",
			actual:    "Reboot the laptop",
			want:      false,
		},
		{
			name:      "predicted empty",
			predicted: "",
			actual:    "Restart the service",
			want:      false,
		},
		{
			name:      "actual empty",
			predicted: "Restart the service",
			actual:    "",
			want:      false,
		},
		{
			name:      "both empty",
			predicted: "",
			actual:    "",
			want:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolution(tt.predicted, tt.actual))
		})
	}
}

func TestResolutionDeterministic(t *testing.T) {
	predicted := "Reset the user password and verify account access"
	actual := "Restore account access by resetting the password"
	first := Resolution(predicted, actual)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Resolution(predicted, actual))
	}
}

func TestKeywords(t *testing.T) {
	words := Keywords("Please try to restart the VPN client, then check DNS settings!")
	require.Equal(t, map[string]bool{
		"restart":  true,
		"vpn":      true,
		"client":   true,
		"then":     true,
		"dns":      true,
		"settings": true,
	}, words)
}

func TestKeywordsDropsShortTokens(t *testing.T) {
	words := Keywords("go to IT")
	require.Empty(t, words)
}

func TestKeywordsUnicode(t *testing.T) {
	words := Keywords("Réinitialiser le mot de passe")
	require.Equal(t, map[string]bool{
		"réinitialiser": true,
		"mot":           true,
		"passe":         true,
	}, words)
}

func TestResolutionUnicode(t *testing.T) {
	predicted := "Réinitialiser le mot de passe de l'utilisateur"
	actual := "Mot de passe réinitialisé pour l'utilisateur"
	require.True(t, Resolution(predicted, actual))
	require.False(t, Resolution(predicted, "Mettre à jour le pare-feu du réseau"))
}
