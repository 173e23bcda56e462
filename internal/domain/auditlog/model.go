package auditlog

import (
	"time"

	"github.com/flexprice/catalog/internal/types"
)

// ObjectType identifies the kind of record an audit entry applies to
type ObjectType string

const (
	ObjectTypeAccount           ObjectType = "ACCOUNT"
	ObjectTypeCatalogVersion    ObjectType = "CATALOG_VERSION"
	ObjectTypeSubscription      ObjectType = "SUBSCRIPTION"
	ObjectTypeSubscriptionEvent ObjectType = "SUBSCRIPTION_EVENT"
	ObjectTypeInvoice           ObjectType = "INVOICE"
	ObjectTypeInvoiceItem       ObjectType = "INVOICE_ITEM"
	ObjectTypePayment           ObjectType = "PAYMENT"
)

// ChangeType is the kind of mutation an audit entry records
type ChangeType string

const (
	ChangeTypeInsert ChangeType = "INSERT"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// AuditLog is one audit record for a domain object
type AuditLog struct {
	ID         string     `json:"id"`
	ObjectType ObjectType `json:"object_type"`
	ObjectID   string     `json:"object_id"`
	ChangeType ChangeType `json:"change_type"`
	Comment    string     `json:"comment,omitempty"`
	UserID     string     `json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewAuditLog builds an audit record for a mutation on the given object
func NewAuditLog(objectType ObjectType, objectID string, changeType ChangeType, userID string) *AuditLog {
	return &AuditLog{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_LOG),
		ObjectType: objectType,
		ObjectID:   objectID,
		ChangeType: changeType,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
}
