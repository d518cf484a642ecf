package ordering

import (
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return dto.OrderResponse{
		ID:        o.ID,
		CompanyID: o.CompanyID,
		ClientID:  o.ClientID,
		CourierID: o.CourierID,
		AddressID: o.AddressID,
		Status:    string(o.Status),
		Items:     items,
		Total:     o.Total,
		PlacedAt:  o.PlacedAt,
		UpdatedAt: o.UpdatedAt,

		ClientName:       o.Contact.ClientName,
		ClientPhone:      o.Contact.ClientPhone,
		AddressName:      o.Contact.AddressName,
		AddressLine:      o.Contact.Address,
		AddressReference: o.Contact.Reference,
		AddressLatitude:  o.Contact.Latitude,
		AddressLongitude: o.Contact.Longitude,
	}
}

func toOrderList(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return out
}
