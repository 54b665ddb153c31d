package cli

import (
	"fmt"
	"strings"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
)

// parseFileID accepts "<owner-hex>:<file-id-hex>", the same shape
// vaulttypes.FileID.String() produces, so output from one command pastes
// directly into the next.
func parseFileID(s string) (client.FileIDWire, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return client.FileIDWire{}, fmt.Errorf("invalid file id %q, expected <owner-hex>:<file-id-hex>", s)
	}
	return client.FileIDWire{Owner: parts[0], ID: parts[1]}, nil
}

func formatFileID(f client.FileIDWire) string {
	return f.Owner + ":" + f.ID
}
