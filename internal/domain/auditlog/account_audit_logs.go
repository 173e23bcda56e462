package auditlog

// AccountAuditLogs holds every audit record for one account and serves
// filtered per-object-type views over it.
//
// Precondition: the input sequence is grouped by object type (all records
// for one object type are contiguous). The store produces records in this
// order; grouping is not inferred or re-checked at query time, only
// exploited.
type AccountAuditLogs struct {
	accountID string
	logs      []*AuditLog

	// lazily built per-object-type views
	byObjectType map[ObjectType]*ObjectTypeAuditLogs
}

// NewAccountAuditLogs wraps an account's audit records, which must be
// grouped by object type
func NewAccountAuditLogs(accountID string, logsGroupedByObjectType []*AuditLog) *AccountAuditLogs {
	return &AccountAuditLogs{
		accountID:    accountID,
		logs:         logsGroupedByObjectType,
		byObjectType: make(map[ObjectType]*ObjectTypeAuditLogs),
	}
}

// AccountID returns the owning account
func (a *AccountAuditLogs) AccountID() string {
	return a.accountID
}

// ForObjectType returns the filtered view for one object type, building it
// on first access
func (a *AccountAuditLogs) ForObjectType(objectType ObjectType) *ObjectTypeAuditLogs {
	if view, ok := a.byObjectType[objectType]; ok {
		return view
	}
	view := newObjectTypeAuditLogs(filterByObjectType(a.logs, objectType))
	a.byObjectType[objectType] = view
	return view
}

// AuditLogsForCatalogVersion returns the audit records for one catalog version
func (a *AccountAuditLogs) AuditLogsForCatalogVersion(versionID string) []*AuditLog {
	return a.ForObjectType(ObjectTypeCatalogVersion).AuditLogs(versionID)
}

// AuditLogsForSubscription returns the audit records for one subscription
func (a *AccountAuditLogs) AuditLogsForSubscription(subscriptionID string) []*AuditLog {
	return a.ForObjectType(ObjectTypeSubscription).AuditLogs(subscriptionID)
}

// AuditLogsForInvoice returns the audit records for one invoice
func (a *AccountAuditLogs) AuditLogsForInvoice(invoiceID string) []*AuditLog {
	return a.ForObjectType(ObjectTypeInvoice).AuditLogs(invoiceID)
}

// AuditLogsForPayment returns the audit records for one payment
func (a *AccountAuditLogs) AuditLogsForPayment(paymentID string) []*AuditLog {
	return a.ForObjectType(ObjectTypePayment).AuditLogs(paymentID)
}

// scanState tracks progress through the grouped input: before the group,
// inside it, past it
type scanState int

const (
	seeking scanState = iota
	inRange
	done
)

// filterByObjectType extracts one object type's contiguous group from the
// grouped sequence in a single pass, stopping as soon as the group ends
func filterByObjectType(logs []*AuditLog, objectType ObjectType) []*AuditLog {
	var out []*AuditLog
	state := seeking
	for _, l := range logs {
		switch state {
		case seeking:
			if l.ObjectType == objectType {
				state = inRange
				out = append(out, l)
			}
		case inRange:
			if l.ObjectType == objectType {
				out = append(out, l)
			} else {
				state = done
			}
		}
		if state == done {
			break
		}
	}
	return out
}

// ObjectTypeAuditLogs is the audit records of a single object type, indexed
// by object id
type ObjectTypeAuditLogs struct {
	byObjectID map[string][]*AuditLog
}

func newObjectTypeAuditLogs(logs []*AuditLog) *ObjectTypeAuditLogs {
	byObjectID := make(map[string][]*AuditLog)
	for _, l := range logs {
		byObjectID[l.ObjectID] = append(byObjectID[l.ObjectID], l)
	}
	return &ObjectTypeAuditLogs{byObjectID: byObjectID}
}

// AuditLogs returns the records for one object id, empty when none exist
func (o *ObjectTypeAuditLogs) AuditLogs(objectID string) []*AuditLog {
	return o.byObjectID[objectID]
}
