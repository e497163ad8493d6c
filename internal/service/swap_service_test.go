package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/service"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SwapServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	ctx         context.Context
	emitter     *testutil.RecordingEmitter
	userRepo    *repository.UserRepository
	swapRepo    *repository.SwapRepository
	swapService *service.SwapService
	userService *service.UserService
}

func (s *SwapServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.swapRepo = repository.NewSwapRepository(s.testDB.DB)
	s.userService = service.NewUserService(s.userRepo)
}

func (s *SwapServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

// SetupTest seeds: alice offers Go and wants Guitar, bob offers Guitar and
// wants Go, carol offers Cooking, dave is private, eve is banned.
func (s *SwapServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.emitter = &testutil.RecordingEmitter{}
	s.swapService = service.NewSwapService(s.swapRepo, s.userRepo, s.emitter)

	db := s.testDB.DB
	testutil.InsertUser(s.T(), db, testutil.NewUser("alice", "alice", []string{"Go", "Python"}, []string{"Guitar"}))
	testutil.InsertUser(s.T(), db, testutil.NewUser("bob", "bob", []string{"Guitar"}, []string{"Go"}))
	testutil.InsertUser(s.T(), db, testutil.NewUser("carol", "carol", []string{"Cooking"}, []string{"Go"}))

	dave := testutil.NewUser("dave", "dave", []string{"Chess"}, nil)
	dave.IsPublic = false
	testutil.InsertUser(s.T(), db, dave)

	eve := testutil.NewUser("eve", "eve", []string{"Go"}, nil)
	eve.IsBanned = true
	testutil.InsertUser(s.T(), db, eve)
}

func (s *SwapServiceTestSuite) createAliceToBob() *models.SwapRequest {
	swap, err := s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID:   "bob",
		OfferedSkill: "Go",
		WantedSkill:  "Guitar",
		Message:      "Let's trade",
	})
	require.NoError(s.T(), err)
	return swap
}

func (s *SwapServiceTestSuite) status(id string) models.SwapStatus {
	swap, err := s.swapRepo.GetByID(s.ctx, id)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), swap)
	return swap.Status
}

// CreateSwapRequest

func (s *SwapServiceTestSuite) TestCreateSwapRequest_Success() {
	swap := s.createAliceToBob()

	assert.NotEmpty(s.T(), swap.ID)
	assert.Equal(s.T(), models.SwapPending, swap.Status)
	assert.Equal(s.T(), "alice", swap.RequesterID)
	assert.Equal(s.T(), "bob", swap.ReceiverID)
	assert.Equal(s.T(), "Go", swap.OfferedSkill)
	assert.Equal(s.T(), "Guitar", swap.WantedSkill)
	assert.Nil(s.T(), swap.Feedback)
	assert.Nil(s.T(), swap.Rating)
	assert.Equal(s.T(), swap.CreatedAt, swap.UpdatedAt)

	stored, err := s.swapRepo.GetByID(s.ctx, swap.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), stored)
	assert.Equal(s.T(), models.SwapPending, stored.Status)
	assert.Equal(s.T(), "Let's trade", stored.RequesterMessage)

	events := s.emitter.Events()
	require.Len(s.T(), events, 1)
	assert.Equal(s.T(), broker.EventSwapCreated, events[0].Type)
	assert.Equal(s.T(), swap.ID, events[0].SwapID)
	assert.ElementsMatch(s.T(), []string{"alice", "bob"}, events[0].UserIDs)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_DistinctIDs() {
	first := s.createAliceToBob()
	second := s.createAliceToBob()

	// Duplicate pending requests are allowed; each gets its own id.
	assert.NotEqual(s.T(), first.ID, second.ID)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_SelfSwapForbidden() {
	for _, id := range []string{"alice", "ghost"} {
		_, err := s.swapService.CreateSwapRequest(s.ctx, id, service.CreateSwapInput{
			ReceiverID:   id,
			OfferedSkill: "Go",
			WantedSkill:  "Go",
			Message:      "me",
		})
		assert.ErrorIs(s.T(), err, apperror.ErrForbidden, id)
	}
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_SkillNotOffered() {
	_, err := s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID:   "bob",
		OfferedSkill: "Cooking",
		WantedSkill:  "Guitar",
		Message:      "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidArgument)

	var appErr *apperror.AppError
	require.True(s.T(), errors.As(err, &appErr))
	assert.Equal(s.T(), "offered_skill", appErr.Field)

	_, err = s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID:   "bob",
		OfferedSkill: "Go",
		WantedSkill:  "Drums",
		Message:      "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidArgument)
	require.True(s.T(), errors.As(err, &appErr))
	assert.Equal(s.T(), "wanted_skill", appErr.Field)

	// Matching is exact; "go" is not "Go".
	_, err = s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID:   "bob",
		OfferedSkill: "go",
		WantedSkill:  "Guitar",
		Message:      "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidArgument)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_UnknownUsers() {
	_, err := s.swapService.CreateSwapRequest(s.ctx, "ghost", service.CreateSwapInput{
		ReceiverID: "bob", OfferedSkill: "Go", WantedSkill: "Guitar", Message: "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)

	_, err = s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID: "ghost", OfferedSkill: "Go", WantedSkill: "Guitar", Message: "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_BannedRequesterForbidden() {
	_, err := s.swapService.CreateSwapRequest(s.ctx, "eve", service.CreateSwapInput{
		ReceiverID: "bob", OfferedSkill: "Go", WantedSkill: "Guitar", Message: "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrForbidden)

	var count int64
	s.testDB.DB.Model(&models.SwapRequest{}).Count(&count)
	assert.Zero(s.T(), count, "no swap may be created by a banned user")
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_BannedReceiverAllowed() {
	swap, err := s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID: "eve", OfferedSkill: "Python", WantedSkill: "Go", Message: "hi",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapPending, swap.Status)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_PrivateReceiverForbidden() {
	_, err := s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID: "dave", OfferedSkill: "Go", WantedSkill: "Chess", Message: "hi",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrForbidden)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_EmptyMessage() {
	_, err := s.swapService.CreateSwapRequest(s.ctx, "alice", service.CreateSwapInput{
		ReceiverID: "bob", OfferedSkill: "Go", WantedSkill: "Guitar", Message: "   ",
	})
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidArgument)
}

func (s *SwapServiceTestSuite) TestCreateSwapRequest_ProfileEditDoesNotRewriteSwap() {
	swap := s.createAliceToBob()

	empty := []string{}
	_, err := s.userService.UpdateProfile(s.ctx, "alice", service.ProfileUpdate{SkillsOffered: &empty})
	require.NoError(s.T(), err)

	stored, err := s.swapRepo.GetByID(s.ctx, swap.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Go", stored.OfferedSkill)
	assert.Equal(s.T(), models.SwapPending, stored.Status)
}

// Transition

func (s *SwapServiceTestSuite) TestTransition_AcceptByReceiver() {
	swap := s.createAliceToBob()

	updated, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapAccepted, updated.Status)
	assert.Equal(s.T(), swap.OfferedSkill, updated.OfferedSkill)
	assert.Equal(s.T(), swap.RequesterMessage, updated.RequesterMessage)
	assert.Equal(s.T(), []broker.EventType{broker.EventSwapCreated, broker.EventSwapAccepted}, s.emitter.Types())
}

func (s *SwapServiceTestSuite) TestTransition_RequesterCannotAccept() {
	swap := s.createAliceToBob()

	_, err := s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionAccept)

	assert.ErrorIs(s.T(), err, apperror.ErrForbidden)
	assert.Equal(s.T(), models.SwapPending, s.status(swap.ID))
}

func (s *SwapServiceTestSuite) TestTransition_StrangerForbidden() {
	swap := s.createAliceToBob()

	for _, action := range service.SwapActions {
		_, err := s.swapService.Transition(s.ctx, swap.ID, "carol", action)
		assert.ErrorIs(s.T(), err, apperror.ErrForbidden, string(action))
	}
	assert.Equal(s.T(), models.SwapPending, s.status(swap.ID))
	assert.Len(s.T(), s.emitter.Events(), 1)
}

func (s *SwapServiceTestSuite) TestTransition_UnknownSwap() {
	_, err := s.swapService.Transition(s.ctx, "missing", "bob", service.ActionAccept)
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)
}

func (s *SwapServiceTestSuite) TestTransition_CancelPending() {
	swap := s.createAliceToBob()

	_, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionCancel)
	assert.ErrorIs(s.T(), err, apperror.ErrForbidden, "receiver cannot cancel a pending swap")

	updated, err := s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionCancel)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapCancelled, updated.Status)
}

func (s *SwapServiceTestSuite) TestTransition_EitherPartyCancelsAccepted() {
	for _, canceller := range []string{"alice", "bob"} {
		swap := s.createAliceToBob()
		_, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)
		require.NoError(s.T(), err)

		updated, err := s.swapService.Transition(s.ctx, swap.ID, canceller, service.ActionCancel)
		require.NoError(s.T(), err, canceller)
		assert.Equal(s.T(), models.SwapCancelled, updated.Status)
	}
}

func (s *SwapServiceTestSuite) TestTransition_CompleteRequiresAccepted() {
	swap := s.createAliceToBob()

	_, err := s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionComplete)

	assert.ErrorIs(s.T(), err, apperror.ErrInvalidState)
	assert.Equal(s.T(), models.SwapPending, s.status(swap.ID))
}

func (s *SwapServiceTestSuite) TestTransition_TerminalStatesAreFinal() {
	swap := s.createAliceToBob()
	_, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionReject)
	require.NoError(s.T(), err)

	for _, tc := range []struct {
		actor  string
		action service.SwapAction
	}{
		{"bob", service.ActionAccept},
		{"bob", service.ActionReject},
		{"alice", service.ActionCancel},
		{"alice", service.ActionComplete},
	} {
		_, err := s.swapService.Transition(s.ctx, swap.ID, tc.actor, tc.action)
		assert.ErrorIs(s.T(), err, apperror.ErrInvalidState, string(tc.action))
	}
	assert.Equal(s.T(), models.SwapRejected, s.status(swap.ID))
}

func (s *SwapServiceTestSuite) TestTransition_EmitFailureDoesNotUndoChange() {
	swap := s.createAliceToBob()
	s.emitter.Err = errors.New("outbox unavailable")

	updated, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapAccepted, updated.Status)
	assert.Equal(s.T(), models.SwapAccepted, s.status(swap.ID))
}

func (s *SwapServiceTestSuite) TestTransition_ConcurrentAcceptsExactlyOneWins() {
	swap := s.createAliceToBob()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(s.T(), err, apperror.ErrInvalidState)
	}
	assert.Equal(s.T(), 1, successes)
	assert.Equal(s.T(), models.SwapAccepted, s.status(swap.ID))
}

func (s *SwapServiceTestSuite) TestTransition_ConcurrentRejectAndCancel() {
	swap := s.createAliceToBob()

	var wg sync.WaitGroup
	var rejectErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, rejectErr = s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionReject)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionCancel)
	}()
	wg.Wait()

	final := s.status(swap.ID)
	if rejectErr == nil {
		assert.ErrorIs(s.T(), cancelErr, apperror.ErrInvalidState)
		assert.Equal(s.T(), models.SwapRejected, final)
	} else {
		assert.NoError(s.T(), cancelErr)
		assert.ErrorIs(s.T(), rejectErr, apperror.ErrInvalidState)
		assert.Equal(s.T(), models.SwapCancelled, final)
	}
}

func (s *SwapServiceTestSuite) TestTransition_ConcurrentAcceptAndCancel() {
	swap := s.createAliceToBob()

	var wg sync.WaitGroup
	var acceptErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionCancel)
	}()
	wg.Wait()

	final := s.status(swap.ID)
	assert.Contains(s.T(), []models.SwapStatus{models.SwapAccepted, models.SwapCancelled}, final)
	for _, err := range []error{acceptErr, cancelErr} {
		if err != nil {
			assert.ErrorIs(s.T(), err, apperror.ErrInvalidState)
		}
	}
	if acceptErr != nil {
		// Cancel won from pending; accept could not follow.
		assert.Equal(s.T(), models.SwapCancelled, final)
	}
}

// SubmitFeedback

func (s *SwapServiceTestSuite) completedSwap() *models.SwapRequest {
	swap := s.createAliceToBob()
	_, err := s.swapService.Transition(s.ctx, swap.ID, "bob", service.ActionAccept)
	require.NoError(s.T(), err)
	_, err = s.swapService.Transition(s.ctx, swap.ID, "alice", service.ActionComplete)
	require.NoError(s.T(), err)
	return swap
}

func (s *SwapServiceTestSuite) TestSubmitFeedback_FullLifecycle() {
	swap := s.completedSwap()

	updated, err := s.swapService.SubmitFeedback(s.ctx, swap.ID, "alice", 5, "great")

	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated.Rating)
	require.NotNil(s.T(), updated.Feedback)
	assert.Equal(s.T(), 5, *updated.Rating)
	assert.Equal(s.T(), "great", *updated.Feedback)
	assert.Equal(s.T(), models.SwapCompleted, updated.Status)

	bob, err := s.userService.GetUser(s.ctx, "bob")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 5.0, bob.Rating)
	require.Len(s.T(), bob.Ratings, 1)
	assert.Equal(s.T(), "alice", bob.Ratings[0].FromUserID)
	assert.Equal(s.T(), swap.ID, bob.Ratings[0].SwapID)
	assert.Equal(s.T(), "great", bob.Ratings[0].Feedback)

	alice, err := s.userService.GetUser(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Zero(s.T(), alice.Rating)
	assert.Empty(s.T(), alice.Ratings)

	assert.Equal(s.T(), []broker.EventType{
		broker.EventSwapCreated,
		broker.EventSwapAccepted,
		broker.EventSwapCompleted,
		broker.EventSwapFeedback,
	}, s.emitter.Types())
}

func (s *SwapServiceTestSuite) TestSubmitFeedback_OnlyOnce() {
	swap := s.completedSwap()

	_, err := s.swapService.SubmitFeedback(s.ctx, swap.ID, "alice", 5, "great")
	require.NoError(s.T(), err)

	_, err = s.swapService.SubmitFeedback(s.ctx, swap.ID, "alice", 1, "changed my mind")
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidState)

	// The other party is also refused; a swap carries one rating.
	_, err = s.swapService.SubmitFeedback(s.ctx, swap.ID, "bob", 4, "")
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidState)

	bob, err := s.userService.GetUser(s.ctx, "bob")
	require.NoError(s.T(), err)
	assert.Len(s.T(), bob.Ratings, 1)
	assert.Equal(s.T(), 5.0, bob.Rating)
}

func (s *SwapServiceTestSuite) TestSubmitFeedback_ReceiverRatesRequester() {
	swap := s.completedSwap()

	_, err := s.swapService.SubmitFeedback(s.ctx, swap.ID, "bob", 3, "ok")
	require.NoError(s.T(), err)

	alice, err := s.userService.GetUser(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3.0, alice.Rating)
}

func (s *SwapServiceTestSuite) TestSubmitFeedback_Preconditions() {
	pending := s.createAliceToBob()

	_, err := s.swapService.SubmitFeedback(s.ctx, pending.ID, "alice", 5, "")
	assert.ErrorIs(s.T(), err, apperror.ErrInvalidState, "pending swap")

	completed := s.completedSwap()

	_, err = s.swapService.SubmitFeedback(s.ctx, completed.ID, "carol", 5, "")
	assert.ErrorIs(s.T(), err, apperror.ErrForbidden, "non-party")

	for _, score := range []int{0, 6, -1} {
		_, err = s.swapService.SubmitFeedback(s.ctx, completed.ID, "alice", score, "")
		assert.ErrorIs(s.T(), err, apperror.ErrInvalidArgument, "score %d", score)
	}

	_, err = s.swapService.SubmitFeedback(s.ctx, "missing", "alice", 5, "")
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)

	bob, err := s.userService.GetUser(s.ctx, "bob")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), bob.Ratings, "failed feedback must not append a rating")

	stored, err := s.swapRepo.GetByID(s.ctx, completed.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), stored.Feedback)
}

func (s *SwapServiceTestSuite) TestSubmitFeedback_RatingIsMean() {
	first := s.completedSwap()
	second := s.completedSwap()

	_, err := s.swapService.SubmitFeedback(s.ctx, first.ID, "alice", 4, "")
	require.NoError(s.T(), err)
	_, err = s.swapService.SubmitFeedback(s.ctx, second.ID, "alice", 5, "")
	require.NoError(s.T(), err)

	bob, err := s.userService.GetUser(s.ctx, "bob")
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 4.5, bob.Rating, 1e-9)
	assert.Len(s.T(), bob.Ratings, 2)
}

// Reads

func (s *SwapServiceTestSuite) TestListForUser_BothDirectionsNewestFirst() {
	db := s.testDB.DB
	base := time.Now().UTC().Add(-time.Hour)
	older := testutil.InsertSwap(s.T(), db, "swap-old", "alice", "bob", models.SwapPending)
	db.Model(older).Update("created_at", base)
	newer := testutil.InsertSwap(s.T(), db, "swap-new", "carol", "alice", models.SwapAccepted)
	db.Model(newer).Update("created_at", base.Add(time.Minute))
	testutil.InsertSwap(s.T(), db, "swap-other", "bob", "carol", models.SwapPending)

	swaps, err := s.swapService.ListForUser(s.ctx, "alice")

	require.NoError(s.T(), err)
	require.Len(s.T(), swaps, 2)
	assert.Equal(s.T(), "swap-new", swaps[0].ID)
	assert.Equal(s.T(), "swap-old", swaps[1].ID)

	received, sent := service.PartitionSwaps("alice", swaps)
	assert.Len(s.T(), received, 1)
	assert.Len(s.T(), sent, 1)
}

func (s *SwapServiceTestSuite) TestGetSwap_PartiesOnly() {
	swap := s.createAliceToBob()

	got, err := s.swapService.GetSwap(s.ctx, swap.ID, "bob")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.Requester)
	assert.Equal(s.T(), "alice", got.Requester.Username)

	_, err = s.swapService.GetSwap(s.ctx, swap.ID, "carol")
	assert.ErrorIs(s.T(), err, apperror.ErrForbidden)
}

func (s *SwapServiceTestSuite) TestForceDelete_AnyState() {
	swap := s.completedSwap()

	deleted, err := s.swapService.ForceDelete(s.ctx, swap.ID, "admin")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), swap.ID, deleted.ID)
	stored, err := s.swapRepo.GetByID(s.ctx, swap.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), stored)

	_, err = s.swapService.ForceDelete(s.ctx, swap.ID, "admin")
	assert.ErrorIs(s.T(), err, apperror.ErrNotFound)
}

func TestSwapServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SwapServiceTestSuite))
}
