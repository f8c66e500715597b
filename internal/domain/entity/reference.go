package entity

// Tipos de referencia de un movimiento o reserva hacia el documento que lo originó.
// Se modela como unión etiquetada con constructores en lugar de un par
// (tipo-texto-libre, id) para que las combinaciones inválidas no sean representables.
const (
	ReferenceTypeOrder         = "ORDER"
	ReferenceTypePurchaseOrder = "PURCHASE_ORDER"
	ReferenceTypeTransfer      = "TRANSFER"
	ReferenceTypeCycleCount    = "CYCLE_COUNT"
	ReferenceTypeManual        = "MANUAL"
)

// Reference apunta al documento externo que originó un movimiento.
// Construir solo con los constructores OrderReference, PurchaseOrderReference, etc.
type Reference struct {
	refType string
	refID   string
}

// OrderReference referencia a una orden de venta.
func OrderReference(orderID string) Reference {
	return Reference{refType: ReferenceTypeOrder, refID: orderID}
}

// PurchaseOrderReference referencia a una orden de compra.
func PurchaseOrderReference(purchaseOrderID string) Reference {
	return Reference{refType: ReferenceTypePurchaseOrder, refID: purchaseOrderID}
}

// TransferReference referencia a un traslado entre bodegas.
func TransferReference(transferID string) Reference {
	return Reference{refType: ReferenceTypeTransfer, refID: transferID}
}

// CycleCountReference referencia a un conteo cíclico / auditoría física.
func CycleCountReference(countID string) Reference {
	return Reference{refType: ReferenceTypeCycleCount, refID: countID}
}

// ManualReference referencia de una operación manual (ajuste de administrador).
// El id puede ser vacío.
func ManualReference(note string) Reference {
	return Reference{refType: ReferenceTypeManual, refID: note}
}

// ReferenceFrom reconstruye una referencia desde persistencia. Devuelve false
// si el tipo no pertenece al catálogo o si falta el id cuando es obligatorio.
func ReferenceFrom(refType, refID string) (Reference, bool) {
	switch refType {
	case ReferenceTypeOrder, ReferenceTypePurchaseOrder, ReferenceTypeTransfer, ReferenceTypeCycleCount:
		if refID == "" {
			return Reference{}, false
		}
	case ReferenceTypeManual:
		// id opcional
	default:
		return Reference{}, false
	}
	return Reference{refType: refType, refID: refID}, true
}

// Type devuelve el tipo de referencia.
func (r Reference) Type() string { return r.refType }

// ID devuelve el identificador del documento referenciado.
func (r Reference) ID() string { return r.refID }

// IsZero indica si la referencia no fue establecida.
func (r Reference) IsZero() bool { return r.refType == "" }
