package service

import (
	"strings"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// ParseClients reads a comma-separated "id:secret" list and hashes every secret.
// Duplicate ids and empty fields are rejected.
func ParseClients(raw string, secrets SecretService) ([]*devDomain.Client, error) {
	seen := make(map[string]struct{})
	var clients []*devDomain.Client

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, secret, ok := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" || secret == "" {
			return nil, apperrors.Wrapf(devDomain.ErrInvalidClientList, "entry %d", len(clients)+1)
		}
		if _, dup := seen[id]; dup {
			return nil, apperrors.Wrapf(devDomain.ErrInvalidClientList, "duplicate client %q", id)
		}
		seen[id] = struct{}{}

		hash, err := secrets.HashSecret(secret)
		if err != nil {
			return nil, err
		}
		clients = append(clients, &devDomain.Client{ID: id, SecretHash: hash})
	}

	if len(clients) == 0 {
		return nil, apperrors.Wrap(devDomain.ErrInvalidClientList, "no clients configured")
	}
	return clients, nil
}
