package models

// EntityType identifies one synchronizable festival entity collection.
// The set is closed: the Sync Manager refuses to build a pass for an
// EntityType that is not present in the registry returned by KnownEntityTypes.
type EntityType string

const (
	EntityFestival            EntityType = "festivals"
	EntityPerformance         EntityType = "performances"
	EntityTicket              EntityType = "tickets"
	EntityTicketScan          EntityType = "ticket_scans"
	EntityCashlessAccount     EntityType = "cashless_accounts"
	EntityCashlessTransaction EntityType = "cashless_transactions"
	EntityFavorite            EntityType = "favorites"
)

// EntityDescriptor declares one entity type and the entity types whose
// server-side records must be synchronized before it. The Sync Manager
// topologically orders SyncTasks from these declarations during preparing,
// so a ticket scan is never pulled before the ticket it references.
type EntityDescriptor struct {
	Type      EntityType
	DependsOn []EntityType
}

// KnownEntityTypes returns the full registry of synchronizable entity
// types with their dependencies. The returned slice is a fresh copy;
// callers may reorder it freely.
func KnownEntityTypes() []EntityDescriptor {
	return []EntityDescriptor{
		{Type: EntityFestival},
		{Type: EntityPerformance, DependsOn: []EntityType{EntityFestival}},
		{Type: EntityTicket, DependsOn: []EntityType{EntityFestival}},
		{Type: EntityTicketScan, DependsOn: []EntityType{EntityTicket}},
		{Type: EntityCashlessAccount, DependsOn: []EntityType{EntityFestival}},
		{Type: EntityCashlessTransaction, DependsOn: []EntityType{EntityCashlessAccount}},
		{Type: EntityFavorite, DependsOn: []EntityType{EntityPerformance}},
	}
}

// IsKnownEntityType reports whether t is present in the registry.
func IsKnownEntityType(t EntityType) bool {
	for _, d := range KnownEntityTypes() {
		if d.Type == t {
			return true
		}
	}
	return false
}
