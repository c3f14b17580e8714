package rest

import (
	"context"
	"net/http"
	"net/url"
)

// Servicio is a catalog entry of the salon's service offering.
type Servicio struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"nombre"`
	Descripcion  string  `json:"descripcion"`
	Precio       float64 `json:"precio"`
	DuracionMin  int     `json:"duracion_min"`
	PeluqueriaID int64   `json:"peluqueria_id"`
}

// ServicioInput is a Servicio without its server-assigned ID, used for
// create and patch calls.
type ServicioInput struct {
	Nombre       string  `json:"nombre"`
	Descripcion  string  `json:"descripcion"`
	Precio       float64 `json:"precio"`
	DuracionMin  int     `json:"duracion_min"`
	PeluqueriaID int64   `json:"peluqueria_id"`
}

// ServiciosClient proxies the /servicios resource.
type ServiciosClient struct {
	client *Client
}

// NewServiciosClient wraps client for the servicios resource.
func NewServiciosClient(client *Client) *ServiciosClient {
	return &ServiciosClient{client: client}
}

// Create posts a new servicio and returns the server's record, including the
// assigned ID.
func (c *ServiciosClient) Create(ctx context.Context, in ServicioInput) (*Servicio, error) {
	var out Servicio
	if err := c.client.do(ctx, http.MethodPost, "/servicios", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches the servicio with the given id and returns the updated
// record.
func (c *ServiciosClient) Update(ctx context.Context, id string, in ServicioInput) (*Servicio, error) {
	var out Servicio
	if err := c.client.do(ctx, http.MethodPatch, "/servicios/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the servicio with the given id.
func (c *ServiciosClient) Delete(ctx context.Context, id string) error {
	return c.client.do(ctx, http.MethodDelete, "/servicios/"+url.PathEscape(id), nil, nil)
}

// List fetches the full servicio catalog. No pagination: the API returns the
// whole list.
func (c *ServiciosClient) List(ctx context.Context) ([]Servicio, error) {
	var out []Servicio
	if err := c.client.do(ctx, http.MethodGet, "/servicios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
