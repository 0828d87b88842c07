package service

import (
	"sync"
	"testing"

	"barangay/internal/model"
	"barangay/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	env.createDocType(t, "Barangay Clearance")
	user := env.createUser(t, "09171234567", model.UserStatusApproved)

	t.Run("creates pending request for approved user", func(t *testing.T) {
		resp, err := env.requests.CreateRequest(testCtx, CreateRequestDTO{
			DocumentType: "Barangay Clearance",
			Purpose:      "Employment",
			Copies:       2,
			Contact:      "+63 917 123 4567",
		})
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, resp.Status)
		assert.Equal(t, model.ActionReview, resp.Action)
		assert.Equal(t, "09171234567", resp.Contact)
		assert.Equal(t, 2, resp.Copies)
		assert.Equal(t, user.ID, resp.UserID)
		require.NotNil(t, resp.User)
		assert.Equal(t, "Juan", resp.User.FirstName)

		assert.EqualValues(t, 1, env.notificationCount(t, user.ID))
	})

	t.Run("rejects unknown or unapproved contact", func(t *testing.T) {
		_, err := env.requests.CreateRequest(testCtx, CreateRequestDTO{
			DocumentType: "Barangay Clearance",
			Purpose:      "Employment",
			Contact:      "09179999999",
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

		var count int64
		env.db.Model(&model.DocumentRequest{}).Where("contact = ?", "09179999999").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rejects pending user", func(t *testing.T) {
		env.createUser(t, "09175550001", model.UserStatusPending)
		_, err := env.requests.CreateRequest(testCtx, CreateRequestDTO{
			DocumentType: "Barangay Clearance",
			Purpose:      "Employment",
			Contact:      "09175550001",
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		_, err := env.requests.CreateRequest(testCtx, CreateRequestDTO{
			DocumentType: "Passport",
			Purpose:      "Travel",
			Contact:      "09171234567",
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("rejects malformed contact", func(t *testing.T) {
		_, err := env.requests.CreateRequest(testCtx, CreateRequestDTO{
			DocumentType: "Barangay Clearance",
			Purpose:      "Employment",
			Contact:      "12345",
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "09170000010", model.UserStatusApproved)

	t.Run("returned sets default notes and action", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusReturned})
		require.NoError(t, err)

		assert.Equal(t, model.StatusReturned, resp.Status)
		assert.Equal(t, "Request returned for correction", resp.Notes)
		assert.Equal(t, model.ActionUpdateRequest, resp.Action)
	})

	t.Run("rejected honours payload overrides", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{
			ID:     req.ID,
			Status: model.StatusRejected,
			Notes:  "Missing valid ID",
			Action: "Resubmit with ID",
		})
		require.NoError(t, err)

		assert.Equal(t, model.StatusRejected, resp.Status)
		assert.Equal(t, "Missing valid ID", resp.Notes)
		assert.Equal(t, "Resubmit with ID", resp.Action)
	})

	t.Run("approved clears notes", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)
		env.db.Model(req).Update("notes", "leftover")

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusApproved})
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, resp.Status)
		assert.Equal(t, model.ActionReview, resp.Action)
		assert.Empty(t, resp.Notes)
	})

	t.Run("for pickup stamps pickup date", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusForPickup})
		require.NoError(t, err)

		assert.Equal(t, model.StatusForPickup, resp.Status)
		assert.Equal(t, model.ActionPickup, resp.Action)
		assert.Empty(t, resp.Notes)
		require.NotNil(t, resp.PickupDate)
	})

	t.Run("pickup date survives later transitions", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusForPickup})
		require.NoError(t, err)

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusCompleted})
		require.NoError(t, err)

		assert.Equal(t, model.StatusCompleted, resp.Status)
		require.NotNil(t, resp.PickupDate, "pickup date must never be cleared once set")
	})

	t.Run("pending only from returned", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)
		before := env.reloadRequest(t, req.ID)

		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusPending})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		assert.Contains(t, err.Error(), "Only Returned requests can be resubmitted")

		after := env.reloadRequest(t, req.ID)
		assert.Equal(t, before.Status, after.Status)
		assert.Equal(t, before.Notes, after.Notes)
		assert.Equal(t, before.Action, after.Action)
		assert.WithinDuration(t, before.UpdatedAt, after.UpdatedAt, 0)
	})

	t.Run("pending from returned succeeds", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusReturned)

		resp, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusPending})
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, resp.Status)
		assert.Equal(t, model.ActionResubmitted, resp.Action)
		assert.Empty(t, resp.Notes)
	})

	t.Run("invalid target rejected", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: "Shipped"})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		assert.Contains(t, err.Error(), "Shipped")
	})

	t.Run("cancelled unreachable via transition", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusCancelled})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: 99999, Status: model.StatusApproved})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("each transition notifies the owner", func(t *testing.T) {
		owner := env.createUser(t, "09170000011", model.UserStatusApproved)
		req := env.createRequest(t, owner, model.StatusPending)

		before := env.notificationCount(t, owner.ID)
		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, before+1, env.notificationCount(t, owner.ID))
	})
}

func TestResubmit(t *testing.T) {
	env := newTestEnv(t)
	env.createDocType(t, "Certificate of Residency")
	user := env.createUser(t, "09170000020", model.UserStatusApproved)

	t.Run("partial edit forces pending", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusReturned)
		notes := "fixed"

		before := env.notificationCount(t, user.ID)
		resp, err := env.requests.Resubmit(testCtx, req.ID, ResubmitRequestDTO{Notes: &notes})
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, resp.Status)
		assert.Equal(t, model.ActionResubmitted, resp.Action)
		assert.Equal(t, "fixed", resp.Notes)
		// Untouched fields survive
		assert.Equal(t, "Barangay Clearance", resp.DocumentType)
		assert.Equal(t, "Employment", resp.Purpose)
		assert.Equal(t, 1, resp.Copies)

		assert.Equal(t, before+1, env.notificationCount(t, user.ID))
	})

	t.Run("rejects non-returned request", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)
		notes := "fixed"

		_, err := env.requests.Resubmit(testCtx, req.ID, ResubmitRequestDTO{Notes: &notes})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("validates document type change", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusReturned)
		docType := "Certificate of Residency"

		resp, err := env.requests.Resubmit(testCtx, req.ID, ResubmitRequestDTO{DocumentType: &docType})
		require.NoError(t, err)
		assert.Equal(t, "Certificate of Residency", resp.DocumentType)

		req2 := env.createRequest(t, user, model.StatusReturned)
		bogus := "Passport"
		_, err = env.requests.Resubmit(testCtx, req2.ID, ResubmitRequestDTO{DocumentType: &bogus})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("rejects zero copies", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusReturned)
		copies := 0

		_, err := env.requests.Resubmit(testCtx, req.ID, ResubmitRequestDTO{Copies: &copies})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "09170000030", model.UserStatusApproved)

	t.Run("marks cancelled and hidden", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)

		before := env.notificationCount(t, user.ID)
		require.NoError(t, env.requests.SoftDelete(testCtx, req.ID))

		stored := env.reloadRequest(t, req.ID)
		assert.True(t, stored.IsDeleted)
		assert.Equal(t, model.StatusCancelled, stored.Status)
		require.NotNil(t, stored.DeletedAt)
		assert.Equal(t, before+1, env.notificationCount(t, user.ID))

		// Hidden from default lookups, visible when opted in
		_, err := env.requests.GetRequest(testCtx, req.ID, false)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		resp, err := env.requests.GetRequest(testCtx, req.ID, true)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, resp.Status)
	})

	t.Run("second delete conflicts without duplicate notification", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusPending)
		require.NoError(t, env.requests.SoftDelete(testCtx, req.ID))

		before := env.notificationCount(t, user.ID)
		deletedAt := env.reloadRequest(t, req.ID).DeletedAt

		err := env.requests.SoftDelete(testCtx, req.ID)
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

		stored := env.reloadRequest(t, req.ID)
		assert.WithinDuration(t, *deletedAt, *stored.DeletedAt, 0)
		assert.Equal(t, before, env.notificationCount(t, user.ID))
	})

	t.Run("soft-deleted requests reject transitions and edits", func(t *testing.T) {
		req := env.createRequest(t, user, model.StatusReturned)
		require.NoError(t, env.requests.SoftDelete(testCtx, req.ID))

		_, err := env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: model.StatusApproved})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		notes := "fixed"
		_, err = env.requests.Resubmit(testCtx, req.ID, ResubmitRequestDTO{Notes: &notes})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func TestListRequests(t *testing.T) {
	env := newTestEnv(t)
	userA := env.createUser(t, "09170000040", model.UserStatusApproved)
	userB := env.createUser(t, "09170000041", model.UserStatusApproved)

	env.createRequest(t, userA, model.StatusPending)
	env.createRequest(t, userA, model.StatusApproved)
	env.createRequest(t, userB, model.StatusPending)
	deleted := env.createRequest(t, userB, model.StatusPending)
	require.NoError(t, env.requests.SoftDelete(testCtx, deleted.ID))

	t.Run("filters by normalized contact", func(t *testing.T) {
		results, err := env.requests.ListRequests(testCtx, RequestListFilter{Contact: "+63 917 000 0040"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, "09170000040", r.Contact)
		}
	})

	t.Run("status filter is case-insensitive", func(t *testing.T) {
		results, err := env.requests.ListRequests(testCtx, RequestListFilter{Status: "approved"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, model.StatusApproved, results[0].Status)
	})

	t.Run("excludes soft-deleted by default", func(t *testing.T) {
		results, err := env.requests.ListRequests(testCtx, RequestListFilter{})
		require.NoError(t, err)
		assert.Len(t, results, 3)

		all, err := env.requests.ListRequests(testCtx, RequestListFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("rejects malformed contact filter", func(t *testing.T) {
		_, err := env.requests.ListRequests(testCtx, RequestListFilter{Contact: "garbage"})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestConcurrentTransitions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "09170000050", model.UserStatusApproved)
	req := env.createRequest(t, user, model.StatusPending)

	targets := []string{model.StatusApproved, model.StatusRejected}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			_, errs[i] = env.requests.UpdateStatus(testCtx, StatusUpdateDTO{ID: req.ID, Status: target})
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	require.GreaterOrEqual(t, succeeded, 1, "at least one transition must commit")

	// Whatever the interleaving, the stored record is one coherent
	// transition result, never a mix of the two.
	stored := env.reloadRequest(t, req.ID)
	switch stored.Status {
	case model.StatusApproved:
		assert.Equal(t, model.ActionReview, stored.Action)
		assert.Empty(t, stored.Notes)
	case model.StatusRejected:
		assert.Equal(t, model.ActionReject, stored.Action)
		assert.Equal(t, "Request rejected", stored.Notes)
	default:
		t.Fatalf("unexpected final status %q", stored.Status)
	}
}
