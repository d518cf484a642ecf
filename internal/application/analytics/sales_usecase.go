// Package analytics contiene los reportes de ventas para las empresas.
package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// WeekdayLabels etiquetas de lunes a domingo.
var WeekdayLabels = []string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

// SalesUseCase genera los reportes de ventas de un dueño de empresas.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type SalesUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

// NewSalesUseCase construye el caso de uso. loc es la zona en la que se decide el día de la semana.
func NewSalesUseCase(analyticsRepo repository.AnalyticsRepository, loc *time.Location) *SalesUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesUseCase{analyticsRepo: analyticsRepo, loc: loc, now: time.Now}
}

// WeeklySales suma el total de los pedidos de los últimos 7 días de todas las empresas del
// principal, agrupado por día de la semana en que se hizo el pedido (lunes = 0).
//
// El cubo es el día de la semana, no la distancia a hoy: si la ventana incluye dos lunes
// (now-7d cae en lunes) ambos suman en "Lun".
func (uc *SalesUseCase) WeeklySales(ctx context.Context, p entity.Principal) (*dto.WeeklySalesResponse, error) {
	if !p.Is(entity.RoleEmpresa) {
		return nil, domain.NewPermissionError("No autorizado")
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, domain.ErrUnauthorized
	}
	since := uc.now().Add(-7 * 24 * time.Hour)
	rows, err := uc.analyticsRepo.OrderTotalsSince(ctx, p.ID, since)
	if err != nil {
		return nil, err
	}

	sales := make([]decimal.Decimal, 7)
	for i := range sales {
		sales[i] = decimal.Zero
	}
	for _, r := range rows {
		if r.PlacedAt.Before(since) {
			continue
		}
		day := WeekdayIndex(r.PlacedAt.In(uc.loc))
		sales[day] = sales[day].Add(r.Total)
	}

	labels := make([]string, len(WeekdayLabels))
	copy(labels, WeekdayLabels)
	return &dto.WeeklySalesResponse{Labels: labels, Sales: sales}, nil
}

// WeekdayIndex lunes = 0 … domingo = 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
