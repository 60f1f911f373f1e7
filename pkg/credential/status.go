package credential

import (
	"fmt"
	"strconv"

	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
)

// StatusFromList reads the credential's revocation/suspension state out
// of a fetched status list credential. The caller supplies the list;
// no fetching happens here.
//
// Returns an error when the credential carries no status entry, the
// entry does not point at the supplied list's purpose, or the entry's
// index is malformed.
func StatusFromList(cred *Credential, list *statuslist.Credential) (bool, error) {
	entry := cred.CredentialStatus
	if entry == nil {
		return false, NewError(ErrCodeMalformed, "credential has no credentialStatus entry")
	}
	if entry.Type != statuslist.TypeStatusListEntry {
		return false, NewError(ErrCodeMalformed,
			fmt.Sprintf("unsupported credentialStatus type %q", entry.Type))
	}
	if entry.StatusPurpose != list.CredentialSubject.StatusPurpose {
		return false, NewError(ErrCodeMalformed, fmt.Sprintf(
			"status purpose mismatch: entry %q, list %q",
			entry.StatusPurpose, list.CredentialSubject.StatusPurpose))
	}

	index, err := strconv.Atoi(entry.StatusListIndex)
	if err != nil {
		return false, WrapError(ErrCodeMalformed, "malformed statusListIndex", err)
	}

	return statuslist.IsRevoked(list.CredentialSubject.EncodedList, index)
}
