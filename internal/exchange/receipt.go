package exchange

import (
	"fmt"

	"github.com/google/uuid"
)

const receiptReferencePrefix = "RCPT-"

// newReceiptReference mints a receipt token of the form RCPT-XXXXXXXXXXXXXXXX
// (16 uppercase hex chars). Uniqueness is enforced by the database; callers
// retry on a collision.
func newReceiptReference() string {
	u := uuid.New()
	return fmt.Sprintf("%s%X", receiptReferencePrefix, u[:8])
}
