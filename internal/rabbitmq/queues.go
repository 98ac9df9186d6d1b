package rabbitmq

import "fmt"

const (
	SUPPORTS_CHANGES_QUEUE = "supports.changes.%s.%s" // <supporterID>.<creatorID>
)

func SupportsChangesQueue(supporterID string, creatorID string) string {
	return fmt.Sprintf(SUPPORTS_CHANGES_QUEUE, supporterID, creatorID)
}
