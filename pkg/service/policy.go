package service

import "github.com/openpost-dev/openpost/pkg/api"

// Authorize implements the ownership policy: a mutating operation is
// allowed only when the authenticated subject is exactly the resource's
// recorded owner. No wildcards, no role escalation. Pure decision, no
// I/O; update and delete both call it after loading the post and before
// any write.
func Authorize(subject, owner string) error {
	if subject != owner {
		return api.NewInvalidPermissionError()
	}
	return nil
}
