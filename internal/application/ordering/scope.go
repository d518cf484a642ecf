package ordering

import (
	"fmt"
	"strings"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// HistoryFilter pedidos que el principal ve en su historial:
// usuarionormal los que compró, empresa los de sus empresas, repartidor los asignados a él.
// Un principal sin ID es ErrUnauthorized: un filtro con ID vacío no restringe nada.
func HistoryFilter(p entity.Principal) (repository.OrderFilter, error) {
	if strings.TrimSpace(p.ID) == "" {
		return repository.OrderFilter{}, domain.ErrUnauthorized
	}
	switch p.Role {
	case entity.RoleUsuarioNormal:
		return repository.OrderFilter{ClientID: p.ID}, nil
	case entity.RoleEmpresa:
		return repository.OrderFilter{CompanyOwnerID: p.ID}, nil
	case entity.RoleRepartidor:
		return repository.OrderFilter{CourierID: p.ID}, nil
	case entity.RoleOther:
		return repository.OrderFilter{None: true}, nil
	default:
		return repository.OrderFilter{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, p.Role)
	}
}

// QueryFilter alcance de list/get/update/delete. Igual que HistoryFilter salvo que el
// repartidor también ve los pedidos sin asignar, para poder tomarlos.
func QueryFilter(p entity.Principal) (repository.OrderFilter, error) {
	if strings.TrimSpace(p.ID) == "" {
		return repository.OrderFilter{}, domain.ErrUnauthorized
	}
	switch p.Role {
	case entity.RoleRepartidor:
		return repository.OrderFilter{CourierID: p.ID, IncludeUnassigned: true}, nil
	case entity.RoleUsuarioNormal, entity.RoleEmpresa, entity.RoleOther:
		return HistoryFilter(p)
	default:
		return repository.OrderFilter{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, p.Role)
	}
}
