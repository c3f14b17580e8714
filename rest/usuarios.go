package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Usuario is a staff or client account managed through the dashboard.
type Usuario struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre,omitempty"`
	Email        string    `json:"email,omitempty"`
	Telefono     string    `json:"telefono,omitempty"`
	Rol          string    `json:"rol,omitempty"`
	PeluqueriaID string    `json:"peluqueria_id,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// UsuarioInput is the create/patch payload for a usuario. Password is only
// sent when set; whether it is required depends on the role (see the
// engine's form validation).
type UsuarioInput struct {
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	Telefono     string `json:"telefono,omitempty"`
	Rol          string `json:"rol"`
	Password     string `json:"password,omitempty"`
	PeluqueriaID string `json:"peluqueria_id"`
}

// UsuariosClient proxies the /usuarios resource.
type UsuariosClient struct {
	client *Client
}

// NewUsuariosClient wraps client for the usuarios resource.
func NewUsuariosClient(client *Client) *UsuariosClient {
	return &UsuariosClient{client: client}
}

// Create posts a new usuario and returns the server's record.
func (c *UsuariosClient) Create(ctx context.Context, in UsuarioInput) (*Usuario, error) {
	var out Usuario
	if err := c.client.do(ctx, http.MethodPost, "/usuarios", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches the usuario with the given id.
func (c *UsuariosClient) Update(ctx context.Context, id string, in UsuarioInput) (*Usuario, error) {
	var out Usuario
	if err := c.client.do(ctx, http.MethodPatch, "/usuarios/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the usuario with the given id.
func (c *UsuariosClient) Delete(ctx context.Context, id string) error {
	return c.client.do(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil)
}

// ListBySalon fetches the accounts scoped to one salon.
func (c *UsuariosClient) ListBySalon(ctx context.Context, peluqueriaID string) ([]Usuario, error) {
	var out []Usuario
	path := "/usuarios/peluqueria/" + url.PathEscape(peluqueriaID)
	if err := c.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
