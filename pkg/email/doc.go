// Package email sends transactional emails through Postmark, with a
// logging DevSender for environments where sending is disabled.
//
// The space-invitation alert sink uses this package to mirror
// space_invited notifications to the invitee's mailbox.
package email
