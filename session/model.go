package session

import "time"

// Identity is the in-memory record of the authenticated user: the merge of
// the auth-provider session, the profile row, and the salon row. It is a
// loosely-typed bag — every field except ID may be empty, and fields the
// profile backend adds without notice land in Extra.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Token        string    `json:"token,omitempty"`
	Nombre       string    `json:"nombre,omitempty"`
	Telefono     string    `json:"telefono,omitempty"`
	Rol          string    `json:"rol,omitempty"`
	PeluqueriaID string    `json:"peluqueria_id,omitempty"`
	Peluqueria   string    `json:"peluqueria,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy so callers can hand identities across goroutines
// without sharing the Extra map.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}

	out := *id
	if id.Extra != nil {
		out.Extra = make(map[string]any, len(id.Extra))
		for k, v := range id.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// View is the derived gating shape consumed by UI surfaces and the route
// guard: Loading mirrors "not yet hydrated", Identity is nil when logged out.
type View struct {
	Identity *Identity
	Loading  bool
}

// Authenticated reports whether the view holds a settled, present identity.
func (v View) Authenticated() bool {
	return !v.Loading && v.Identity != nil
}

// envelopeVersion tags the persisted JSON so a future format change can
// discard stale blobs instead of misreading them. There is no migration
// logic: parse-or-discard only.
const envelopeVersion = 1

type envelope struct {
	State   envelopeState `json:"state"`
	Version int           `json:"version"`
}

type envelopeState struct {
	Identity *Identity `json:"identity"`
	Ready    bool      `json:"ready"`
}
