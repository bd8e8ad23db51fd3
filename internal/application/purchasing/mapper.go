package purchasing

import (
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       it.TotalPrice,
			ReceivedQuantity: it.ReceivedQuantity,
			Notes:            it.Notes,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		CreatedBy:            po.CreatedBy,
		Status:               po.Status.String(),
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		TotalAmount:          po.TotalAmount,
		Currency:             po.Currency,
		TermsAndConditions:   po.TermsAndConditions,
		Notes:                po.Notes,
		ApprovalWorkflow:     po.ApprovalWorkflow,
		Items:                items,
		Approvals:            toApprovalResponses(po.Approvals),
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

func toApprovalResponses(list []entity.PurchaseOrderApproval) []dto.ApprovalResponse {
	out := make([]dto.ApprovalResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ApprovalResponse{
			ID:         a.ID,
			ApproverID: a.ApproverID,
			Status:     a.Status,
			Comments:   a.Comments,
			ApprovedAt: a.ApprovedAt,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.ShipmentItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.ShipmentItemResponse{
			ID:                  it.ID,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			Quantity:            it.Quantity,
			UnitPrice:           it.UnitPrice,
			TotalPrice:          it.TotalPrice,
		})
	}
	history := make([]dto.ShipmentStatusChangeResponse, 0, len(s.StatusHistory))
	for _, h := range s.StatusHistory {
		history = append(history, dto.ShipmentStatusChangeResponse{
			Status:    string(h.Status),
			Note:      h.Note,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		})
	}
	return &dto.ShipmentResponse{
		ID:                   s.ID,
		ShipmentNumber:       s.ShipmentNumber,
		PurchaseOrderID:      s.PurchaseOrderID,
		LocationID:           s.LocationID,
		Carrier:              s.Carrier,
		TrackingNumber:       s.TrackingNumber,
		ShipmentType:         s.ShipmentType,
		Status:               string(s.Status),
		ShippedDate:          s.ShippedDate,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		ActualDeliveryDate:   s.ActualDeliveryDate,
		ShippingCost:         s.ShippingCost,
		Currency:             s.Currency,
		Notes:                s.Notes,
		StatusHistory:        history,
		Items:                items,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
