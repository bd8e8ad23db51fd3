package purchasing

import (
	"context"
	"fmt"
	"html"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// Las notificaciones se disparan después del commit: un fallo se registra en el log
// y no revierte la operación ya confirmada.

func (uc *PurchaseOrderUseCase) notifyDecision(ctx context.Context, po *entity.PurchaseOrder, in dto.ApprovalDecisionRequest) {
	if uc.notifier == nil || po.CreatedBy == "" {
		return
	}
	creator, err := uc.repos.Users.GetByID(ctx, po.CreatedBy)
	if err != nil || creator == nil || creator.Email == "" {
		uc.log.Warn().Str("po_id", po.ID).Msg("sin destinatario para notificar la decisión")
		return
	}
	verb := "aprobada"
	if in.Decision == entity.ApprovalStatusRejected {
		verb = "rechazada"
	}
	body := fmt.Sprintf("<p>La orden de compra <b>%s</b> fue %s.</p>", html.EscapeString(po.PONumber), verb)
	if in.Comments != "" {
		body += fmt.Sprintf("<p>Comentarios: %s</p>", html.EscapeString(in.Comments))
	}
	uc.send(ctx, po, ports.Notification{
		To:      []string{creator.Email},
		Subject: fmt.Sprintf("Orden %s %s", po.PONumber, verb),
		Body:    body,
	})
}

func (uc *PurchaseOrderUseCase) notifySupplier(ctx context.Context, po *entity.PurchaseOrder) {
	if uc.notifier == nil {
		return
	}
	doc, err := uc.document(ctx, po.ID)
	if err != nil {
		uc.log.Error().Err(err).Str("po_id", po.ID).Msg("no se pudo preparar la notificación al proveedor")
		return
	}
	if doc.Supplier.Email == "" {
		uc.log.Warn().Str("po_id", po.ID).Str("supplier", doc.Supplier.Code).Msg("proveedor sin email, no se notifica")
		return
	}
	n := ports.Notification{
		To:      []string{doc.Supplier.Email},
		Subject: fmt.Sprintf("Orden de compra %s", po.PONumber),
		Body: fmt.Sprintf("<p>Estimado(a) %s,</p><p>Adjuntamos la orden de compra <b>%s</b> por %s %s.</p>",
			html.EscapeString(doc.Supplier.Name), html.EscapeString(po.PONumber), po.TotalAmount.StringFixed(2), po.Currency),
	}
	if uc.pdf != nil {
		pdfBytes, err := uc.pdf.GeneratePurchaseOrderPDF(ctx, doc)
		if err != nil {
			uc.log.Error().Err(err).Str("po_id", po.ID).Msg("no se pudo generar el PDF para el proveedor")
		} else {
			n.Attachments = append(n.Attachments, ports.Attachment{
				Filename:    po.PONumber + ".pdf",
				ContentType: "application/pdf",
				Data:        pdfBytes,
			})
		}
	}
	uc.send(ctx, po, n)
}

func (uc *PurchaseOrderUseCase) send(ctx context.Context, po *entity.PurchaseOrder, n ports.Notification) {
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.log.Error().Err(err).Str("po_id", po.ID).Str("subject", n.Subject).Msg("notificación fallida")
	}
}
