package admincore

import (
	"github.com/salonhub/admincore/catalog"
	"github.com/salonhub/admincore/rest"
)

// NewServicioList builds an optimistic list for the service catalog, with
// rollbacks feeding the engine's metrics. Callers typically Replace it with
// the result of Servicios().List and route mutations through the list so the
// UI state and the backend stay reconciled.
func (e *Engine) NewServicioList() *catalog.List[rest.Servicio] {
	list := catalog.NewList(func(s rest.Servicio) string { return s.ID })
	list.SetRollbackHook(func() {
		e.metricInc(MetricRollback)
	})
	return list
}

// NewUsuarioList builds an optimistic list for the salon's accounts, with
// rollbacks feeding the engine's metrics.
func (e *Engine) NewUsuarioList() *catalog.List[rest.Usuario] {
	list := catalog.NewList(func(u rest.Usuario) string { return u.ID })
	list.SetRollbackHook(func() {
		e.metricInc(MetricRollback)
	})
	return list
}
