package domain

// Action is the class of mutation being attempted on a record.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize is the single policy gate for every mutation on customers, STBs
// and transactions:
//
//	ADMIN:    full access to all records.
//	EDITOR:   may create; may update/delete only records they created.
//	INACTIVE: denied everything.
//
// ownerID is the record's creator reference; for creates it is ignored.
// An empty actor ID means the caller was never authenticated.
func Authorize(action Action, ownerID string, actor Actor) error {
	if actor.ID == "" {
		return ErrUnauthorized
	}

	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleEditor:
		if action == ActionCreate {
			return nil
		}
		if ownerID == actor.ID {
			return nil
		}
		return ErrForbidden
	default:
		// INACTIVE and anything unrecognized.
		return ErrForbidden
	}
}
