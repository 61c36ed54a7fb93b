package friends

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/furnet-labs/furnet/internal/apperrors"
)

// Friend is a durably recorded link to a peer instance. Records are never
// mutated after creation, only deleted.
//
// dns_name is derived from the peer's URL at link time and never refreshed;
// if the peer later moves to a different hostname the record keeps the old
// name until the friend is removed and linked again.
type Friend struct {
	UniqueID    string    `json:"unique_id"`
	DNSName     string    `json:"dns_name"`
	Name        string    `json:"name"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Candidate is the caller-supplied part of a friend record, before the
// registry stamps connected_at.
type Candidate struct {
	UniqueID string `json:"unique_id"`
	DNSName  string `json:"dns_name"`
	Name     string `json:"name"`
}

// Validate checks that all candidate fields are present.
func (c Candidate) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.UniqueID, validation.Required),
		validation.Field(&c.DNSName, validation.Required),
		validation.Field(&c.Name, validation.Required),
	)
	if err != nil {
		return apperrors.BadParameter("invalid friend candidate: "+err.Error(), err)
	}

	return nil
}
