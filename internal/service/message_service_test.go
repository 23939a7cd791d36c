package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

func TestSendMessage(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	t.Run("sender identity snapshotted", func(t *testing.T) {
		msg, err := f.msgService.Send(ctx, f.user, complaint.ID, "Any update on this?", "")
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, msg.SenderID)
		assert.Equal(t, f.user.FullName, msg.SenderName)
		assert.Equal(t, domain.RoleOrdinary, msg.SenderRole)
		assert.Equal(t, domain.MessageTypeText, msg.MessageType)
	})

	t.Run("stranger denied", func(t *testing.T) {
		_, err := f.msgService.Send(ctx, f.other, complaint.ID, "hello", "")
		assert.Equal(t, "ACCESS_DENIED", domainErr(t, err).Code)
	})

	t.Run("missing complaint reported before access", func(t *testing.T) {
		_, err := f.msgService.Send(ctx, f.other, "missing", "hello", "")
		assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := f.msgService.Send(ctx, f.user, complaint.ID, "   ", "")
		assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		_, err := f.msgService.Send(ctx, f.user, complaint.ID, strings.Repeat("a", domain.MaxMessageLength+1), "")
		assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		msg, err := f.msgService.Send(ctx, f.user, complaint.ID, strings.Repeat("é", domain.MaxMessageLength), "")
		require.NoError(t, err)
		assert.Equal(t, domain.MaxMessageLength, utf8.RuneCountInString(msg.Body))

		_, err = f.msgService.Send(ctx, f.user, complaint.ID, strings.Repeat("é", domain.MaxMessageLength+1), "")
		assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
	})

	t.Run("system type not accepted from clients", func(t *testing.T) {
		_, err := f.msgService.Send(ctx, f.user, complaint.ID, "hello", domain.MessageTypeSystem)
		assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
	})
}

func TestThreadReadReceipts(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	_, err := f.service.Assign(ctx, f.admin, complaint.ID, f.agent.ID)
	require.NoError(t, err)

	_, err = f.msgService.Send(ctx, f.agent, complaint.ID, "Looking into it now", "")
	require.NoError(t, err)

	count, err := f.msgService.UnreadCount(ctx, f.user)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	thread, err := f.msgService.ListThread(ctx, f.user, complaint.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].ReadBy, 1)
	assert.Equal(t, f.user.ID, thread[0].ReadBy[0].UserID)

	count, err = f.msgService.UnreadCount(ctx, f.user)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// reading again stays idempotent
	thread, err = f.msgService.ListThread(ctx, f.user, complaint.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Len(t, thread[0].ReadBy, 1)
}

func TestUnreadCountScoping(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	mine := f.submit(t)
	theirs, err := f.service.Create(ctx, f.other, ComplaintCreateInput{
		Name: "User Two", Address: "2 Oak Ave", City: "Salem", State: "OR",
		Pincode: "97301", Comment: "Billing discrepancy",
	})
	require.NoError(t, err)
	_, err = f.service.Assign(ctx, f.admin, mine.ID, f.agent.ID)
	require.NoError(t, err)

	_, err = f.msgService.Send(ctx, f.agent, mine.ID, "On it", "")
	require.NoError(t, err)
	_, err = f.msgService.Send(ctx, f.other, theirs.ID, "Please help", "")
	require.NoError(t, err)

	// owner only sees messages on their own complaint
	count, err := f.msgService.UnreadCount(ctx, f.user)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// agent only sees assigned complaints, and not their own message
	count, err = f.msgService.UnreadCount(ctx, f.agent)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// admin sees every thread
	count, err = f.msgService.UnreadCount(ctx, f.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMarkRead(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	_, err := f.service.Assign(ctx, f.admin, complaint.ID, f.agent.ID)
	require.NoError(t, err)

	msg, err := f.msgService.Send(ctx, f.agent, complaint.ID, "Update", "")
	require.NoError(t, err)

	t.Run("own message is a no-op", func(t *testing.T) {
		require.NoError(t, f.msgService.MarkRead(ctx, f.agent, msg.ID))
		stored, err := f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.ReadBy)
	})

	t.Run("recipient receipt recorded once", func(t *testing.T) {
		require.NoError(t, f.msgService.MarkRead(ctx, f.user, msg.ID))
		require.NoError(t, f.msgService.MarkRead(ctx, f.user, msg.ID))
		stored, err := f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, stored.ReadBy, 1)
		assert.Equal(t, f.user.ID, stored.ReadBy[0].UserID)
	})

	t.Run("outsider denied", func(t *testing.T) {
		err := f.msgService.MarkRead(ctx, f.other, msg.ID)
		assert.Equal(t, "ACCESS_DENIED", domainErr(t, err).Code)
	})

	t.Run("unknown message", func(t *testing.T) {
		err := f.msgService.MarkRead(ctx, f.user, "missing")
		assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
	})
}
